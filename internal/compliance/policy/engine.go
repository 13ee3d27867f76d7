package policy

import (
	"context"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/pkg/errors"
)

var (
	ErrPolicyNotFound = errors.New("export policy not found")
	ErrPolicyDenied   = errors.New("export policy denied")
)

// Engine 导出策略引擎接口
// 控制敏感数据导出等动作是否被允许
type Engine interface {
	EvaluatePolicy(ctx context.Context, policyID string, action string) error
	LoadPolicy(ctx context.Context, policyID string) (*Policy, error)
}

// engine 导出策略引擎实现
type engine struct {
	trailStore storage.TrailStore
}

// NewEngine 创建新的导出策略引擎
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewEngine(trailStore storage.TrailStore) Engine {
	return &engine{
		trailStore: trailStore,
	}
}

// EvaluatePolicy 评估策略
// 拒绝语句优先，缺少任何允许语句时默认拒绝
func (e *engine) EvaluatePolicy(ctx context.Context, policyID string, action string) error {
	policy, err := e.LoadPolicy(ctx, policyID)
	if err != nil {
		return errors.Wrap(err, "failed to load export policy")
	}

	allowed := false
	for _, statement := range policy.Statements {
		if statement.Effect == "Deny" {
			for _, deniedAction := range statement.Actions {
				if deniedAction == action || deniedAction == "*" {
					return ErrPolicyDenied
				}
			}
		} else if statement.Effect == "Allow" {
			for _, allowedAction := range statement.Actions {
				if allowedAction == action || allowedAction == "*" {
					allowed = true
					break
				}
			}
		}
	}

	if !allowed {
		return ErrPolicyDenied
	}

	return nil
}

// LoadPolicy 加载策略
func (e *engine) LoadPolicy(ctx context.Context, policyID string) (*Policy, error) {
	storagePolicy, err := e.trailStore.GetExportPolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, storage.ErrPolicyNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, errors.Wrap(err, "failed to get export policy from storage")
	}

	return &Policy{
		PolicyID:    storagePolicy.PolicyID,
		Description: storagePolicy.Description,
		Statements:  parseStatements(storagePolicy.PolicyDocument),
	}, nil
}

// parseStatements 解析策略文档
//
//nolint:nestif // policy parsing requires nested conditionals for type checking
func parseStatements(document map[string]interface{}) []*Statement {
	statements := make([]*Statement, 0)

	statementsData, ok := document["statements"].([]interface{})
	if !ok {
		return statements
	}

	for _, stmtData := range statementsData {
		stmtMap, ok := stmtData.(map[string]interface{})
		if !ok {
			continue
		}

		stmt := &Statement{}
		if effect, ok := stmtMap["effect"].(string); ok {
			stmt.Effect = effect
		}
		if actions, ok := stmtMap["actions"].([]interface{}); ok {
			stmt.Actions = make([]string, 0, len(actions))
			for _, action := range actions {
				if actionStr, ok := action.(string); ok {
					stmt.Actions = append(stmt.Actions, actionStr)
				}
			}
		}
		if formats, ok := stmtMap["formats"].([]interface{}); ok {
			stmt.Formats = make([]string, 0, len(formats))
			for _, format := range formats {
				if formatStr, ok := format.(string); ok {
					stmt.Formats = append(stmt.Formats, formatStr)
				}
			}
		}
		if conditions, ok := stmtMap["conditions"].(map[string]interface{}); ok {
			stmt.Conditions = conditions
		}

		statements = append(statements, stmt)
	}

	return statements
}

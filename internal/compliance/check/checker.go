package check

import (
	"context"

	"github.com/dropbox/godropbox/time2"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/pkg/errors"
)

var (
	ErrValidationFailed = errors.New("compliance fact validation failed")
)

// Checker 标准检查器接口
// 对每个标准执行固定顺序的子检查并汇总为状态记录
type Checker interface {
	CheckGDPR(ctx context.Context) (*GDPRStatus, error)
	CheckHIPAA(ctx context.Context) (*HIPAAStatus, error)
	CheckSOX(ctx context.Context) (*SOXStatus, error)
	CheckPCIDSS(ctx context.Context) (*PCIDSSStatus, error)
	CheckISO27001(ctx context.Context) (*ISO27001Status, error)

	// Check 按标准分发到对应检查器
	Check(ctx context.Context, s standard.Standard) (Status, error)
}

// checker 标准检查器实现
type checker struct {
	facts      FactProvider
	clock      time2.Clock
	assessedBy string
}

// NewChecker 创建新的标准检查器
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewChecker(facts FactProvider, clock time2.Clock, assessedBy string) Checker {
	return &checker{
		facts:      facts,
		clock:      clock,
		assessedBy: assessedBy,
	}
}

// Check 按标准分发
// 枚举是封闭的，新增标准必须同时扩展此 switch
func (c *checker) Check(ctx context.Context, s standard.Standard) (Status, error) {
	switch s {
	case standard.GDPR:
		return c.CheckGDPR(ctx)
	case standard.HIPAA:
		return c.CheckHIPAA(ctx)
	case standard.SOX:
		return c.CheckSOX(ctx)
	case standard.PCIDSS:
		return c.CheckPCIDSS(ctx)
	case standard.ISO27001:
		return c.CheckISO27001(ctx)
	default:
		return nil, errors.Wrapf(standard.ErrUnknownStandard, "%q", s)
	}
}

// CheckGDPR 执行 GDPR 子检查序列
func (c *checker) CheckGDPR(ctx context.Context) (*GDPRStatus, error) {
	status := &GDPRStatus{
		AssessedBy: c.assessedBy,
		CheckedAt:  c.clock.Now(),
	}

	fields := []struct {
		fact string
		dest *bool
	}{
		{FactGDPRLawfulBasis, &status.LawfulBasisDocumented},
		{FactGDPRConsentManagement, &status.ConsentManagementEnabled},
		{FactGDPRDataMinimization, &status.DataMinimizationApplied},
		{FactGDPRPurposeLimitation, &status.PurposeLimitationApplied},
		{FactGDPRStorageLimitation, &status.StorageLimitationApplied},
		{FactGDPRDataAccuracy, &status.DataAccuracyMaintained},
		{FactGDPRRightOfAccess, &status.RightOfAccessImplemented},
		{FactGDPRRightToRectification, &status.RightToRectification},
		{FactGDPRRightToErasure, &status.RightToErasureImplemented},
		{FactGDPRRightToPortability, &status.RightToDataPortability},
		{FactGDPRRightToObject, &status.RightToObjectImplemented},
		{FactGDPRRightToRestriction, &status.RightToRestrictionImplemented},
		{FactGDPREncryption, &status.EncryptionEnabled},
		{FactGDPRAccessControl, &status.AccessControlEnforced},
		{FactGDPRBackupProcedures, &status.BackupProceduresInPlace},
		{FactGDPRIncidentResponse, &status.IncidentResponseReady},
		{FactGDPRStaffTraining, &status.StaffTrainingCompleted},
		{FactGDPRBreachDetection, &status.BreachDetectionProcedures},
		{FactGDPRBreachNotification, &status.BreachNotificationProcedures},
		{FactGDPRBreachDocumentation, &status.BreachDocumentationProcedures},
		{FactGDPRBreachReview, &status.BreachReviewProcedures},
		{FactGDPRAdequacyDecisions, &status.AdequacyDecisionsVerified},
		{FactGDPRStandardClauses, &status.SCCsInPlace},
		{FactGDPRBindingRules, &status.BCRsApproved},
		{FactGDPRCodesOfConduct, &status.CodesOfConductSubscribed},
	}

	if err := c.collect(ctx, fields); err != nil {
		return nil, err
	}

	return status, nil
}

// CheckHIPAA 执行 HIPAA 子检查序列
func (c *checker) CheckHIPAA(ctx context.Context) (*HIPAAStatus, error) {
	status := &HIPAAStatus{
		AssessedBy: c.assessedBy,
		CheckedAt:  c.clock.Now(),
	}

	fields := []struct {
		fact string
		dest *bool
	}{
		{FactHIPAAAdministrativeSafeguards, &status.AdministrativeSafeguards},
		{FactHIPAAPhysicalSafeguards, &status.PhysicalSafeguards},
		{FactHIPAATechnicalSafeguards, &status.TechnicalSafeguards},
		{FactHIPAAEncryptionAtRest, &status.PHIEncryptionAtRest},
		{FactHIPAAEncryptionInTransit, &status.PHIEncryptionInTransit},
		{FactHIPAAAccessControls, &status.AccessControlsEnforced},
		{FactHIPAAAuditControls, &status.AuditControlsEnabled},
		{FactHIPAAIntegrityControls, &status.IntegrityControlsEnabled},
		{FactHIPAABusinessAssociates, &status.BusinessAssociateAgreements},
		{FactHIPAABreachNotification, &status.BreachNotificationReady},
		{FactHIPAAWorkforceTraining, &status.WorkforceTrainingCurrent},
		{FactHIPAAContingencyPlan, &status.ContingencyPlanInPlace},
	}

	if err := c.collect(ctx, fields); err != nil {
		return nil, err
	}

	return status, nil
}

// CheckSOX 执行 SOX 子检查序列
func (c *checker) CheckSOX(ctx context.Context) (*SOXStatus, error) {
	status := &SOXStatus{
		AssessedBy: c.assessedBy,
		CheckedAt:  c.clock.Now(),
	}

	fields := []struct {
		fact string
		dest *bool
	}{
		{FactSOXChangeManagement, &status.ChangeManagementControls},
		{FactSOXAccessReviews, &status.AccessReviewsPerformed},
		{FactSOXSegregationOfDuties, &status.SegregationOfDuties},
		{FactSOXAuditLogging, &status.AuditLoggingEnabled},
		{FactSOXFinancialDataIntegrity, &status.FinancialDataIntegrity},
		{FactSOXITGeneralControls, &status.ITGeneralControlsTested},
		{FactSOXRetentionPolicy, &status.RetentionPolicyEnforced},
		{FactSOXManagementCertification, &status.ManagementCertification},
	}

	if err := c.collect(ctx, fields); err != nil {
		return nil, err
	}

	return status, nil
}

// CheckPCIDSS 执行 PCI DSS 子检查序列
func (c *checker) CheckPCIDSS(ctx context.Context) (*PCIDSSStatus, error) {
	status := &PCIDSSStatus{
		AssessedBy: c.assessedBy,
		CheckedAt:  c.clock.Now(),
	}

	fields := []struct {
		fact string
		dest *bool
	}{
		{FactPCIFirewallConfiguration, &status.FirewallConfigurationMaintained},
		{FactPCIVendorDefaults, &status.VendorDefaultsChanged},
		{FactPCICardholderData, &status.CardholderDataProtected},
		{FactPCITransmissionEncryption, &status.TransmissionEncryptionEnabled},
		{FactPCIAntiMalware, &status.AntiMalwareDeployed},
		{FactPCISecureSystems, &status.SecureSystemsMaintained},
		{FactPCINeedToKnowAccess, &status.AccessRestrictedByNeedToKnow},
		{FactPCIUniqueIDs, &status.UniqueIDsAssigned},
		{FactPCIPhysicalAccess, &status.PhysicalAccessRestricted},
		{FactPCINetworkMonitoring, &status.NetworkAccessMonitored},
		{FactPCISecurityTesting, &status.SecurityTestingPerformed},
		{FactPCISecurityPolicy, &status.SecurityPolicyMaintained},
	}

	if err := c.collect(ctx, fields); err != nil {
		return nil, err
	}

	return status, nil
}

// CheckISO27001 执行 ISO 27001 子检查序列
func (c *checker) CheckISO27001(ctx context.Context) (*ISO27001Status, error) {
	status := &ISO27001Status{
		AssessedBy: c.assessedBy,
		CheckedAt:  c.clock.Now(),
	}

	fields := []struct {
		fact string
		dest *bool
	}{
		{FactISOScopeDefined, &status.ISMSScopeDefined},
		{FactISORiskAssessment, &status.RiskAssessmentCurrent},
		{FactISOAnnexAControls, &status.AnnexAControlsImplemented},
		{FactISOAssetInventory, &status.AssetInventoryMaintained},
		{FactISOAccessManagement, &status.AccessManagementControls},
		{FactISOIncidentManagement, &status.IncidentManagementProcess},
		{FactISOBusinessContinuity, &status.BusinessContinuityPlanned},
		{FactISOInternalAudit, &status.InternalAuditPerformed},
		{FactISOManagementReview, &status.ManagementReviewPerformed},
		{FactISOContinualImprovement, &status.ContinualImprovement},
	}

	if err := c.collect(ctx, fields); err != nil {
		return nil, err
	}

	return status, nil
}

// collect 按顺序查询事实并写入目标字段
// 任一协作方报错即整体失败
func (c *checker) collect(ctx context.Context, fields []struct {
	fact string
	dest *bool
}) error {
	for _, f := range fields {
		value, err := c.facts.CheckFact(ctx, f.fact)
		if err != nil {
			return errors.Wrapf(ErrValidationFailed, "fact %s: %v", f.fact, err)
		}
		*f.dest = value
	}
	return nil
}

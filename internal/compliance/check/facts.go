package check

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrUnknownFact = errors.New("unknown compliance fact")
)

// 子检查项事实名称
// 每个事实都是一个命名布尔信号，由外部协作方（加密引擎、访问控制、审计系统）提供
const (
	// GDPR
	FactGDPRLawfulBasis          = "gdpr.lawful_basis_documented"
	FactGDPRConsentManagement    = "gdpr.consent_management_enabled"
	FactGDPRDataMinimization     = "gdpr.data_minimization_applied"
	FactGDPRPurposeLimitation    = "gdpr.purpose_limitation_applied"
	FactGDPRStorageLimitation    = "gdpr.storage_limitation_applied"
	FactGDPRDataAccuracy         = "gdpr.data_accuracy_maintained"
	FactGDPRRightOfAccess        = "gdpr.right_of_access_implemented"
	FactGDPRRightToRectification = "gdpr.right_to_rectification"
	FactGDPRRightToErasure       = "gdpr.right_to_erasure_implemented"
	FactGDPRRightToPortability   = "gdpr.right_to_data_portability"
	FactGDPRRightToObject        = "gdpr.right_to_object_implemented"
	FactGDPRRightToRestriction   = "gdpr.right_to_restriction_implemented"
	FactGDPREncryption           = "gdpr.encryption_enabled"
	FactGDPRAccessControl        = "gdpr.access_control_enforced"
	FactGDPRBackupProcedures     = "gdpr.backup_procedures_in_place"
	FactGDPRIncidentResponse     = "gdpr.incident_response_ready"
	FactGDPRStaffTraining        = "gdpr.staff_training_completed"
	FactGDPRBreachDetection      = "gdpr.breach_detection_procedures"
	FactGDPRBreachNotification   = "gdpr.breach_notification_procedures"
	FactGDPRBreachDocumentation  = "gdpr.breach_documentation_procedures"
	FactGDPRBreachReview         = "gdpr.breach_review_procedures"
	FactGDPRAdequacyDecisions    = "gdpr.adequacy_decisions_verified"
	FactGDPRStandardClauses      = "gdpr.sccs_in_place"
	FactGDPRBindingRules         = "gdpr.bcrs_approved"
	FactGDPRCodesOfConduct       = "gdpr.codes_of_conduct_subscribed"

	// HIPAA
	FactHIPAAAdministrativeSafeguards = "hipaa.administrative_safeguards"
	FactHIPAAPhysicalSafeguards       = "hipaa.physical_safeguards"
	FactHIPAATechnicalSafeguards      = "hipaa.technical_safeguards"
	FactHIPAAEncryptionAtRest         = "hipaa.phi_encryption_at_rest"
	FactHIPAAEncryptionInTransit      = "hipaa.phi_encryption_in_transit"
	FactHIPAAAccessControls           = "hipaa.access_controls_enforced"
	FactHIPAAAuditControls            = "hipaa.audit_controls_enabled"
	FactHIPAAIntegrityControls        = "hipaa.integrity_controls_enabled"
	FactHIPAABusinessAssociates       = "hipaa.business_associate_agreements"
	FactHIPAABreachNotification       = "hipaa.breach_notification_ready"
	FactHIPAAWorkforceTraining        = "hipaa.workforce_training_current"
	FactHIPAAContingencyPlan          = "hipaa.contingency_plan_in_place"

	// SOX
	FactSOXChangeManagement        = "sox.change_management_controls"
	FactSOXAccessReviews           = "sox.access_reviews_performed"
	FactSOXSegregationOfDuties     = "sox.segregation_of_duties"
	FactSOXAuditLogging            = "sox.audit_logging_enabled"
	FactSOXFinancialDataIntegrity  = "sox.financial_data_integrity"
	FactSOXITGeneralControls       = "sox.it_general_controls_tested"
	FactSOXRetentionPolicy         = "sox.retention_policy_enforced"
	FactSOXManagementCertification = "sox.management_certification"

	// PCI DSS
	FactPCIFirewallConfiguration  = "pcidss.firewall_configuration_maintained"
	FactPCIVendorDefaults         = "pcidss.vendor_defaults_changed"
	FactPCICardholderData         = "pcidss.cardholder_data_protected"
	FactPCITransmissionEncryption = "pcidss.transmission_encryption_enabled"
	FactPCIAntiMalware            = "pcidss.anti_malware_deployed"
	FactPCISecureSystems          = "pcidss.secure_systems_maintained"
	FactPCINeedToKnowAccess       = "pcidss.access_restricted_by_need_to_know"
	FactPCIUniqueIDs              = "pcidss.unique_ids_assigned"
	FactPCIPhysicalAccess         = "pcidss.physical_access_restricted"
	FactPCINetworkMonitoring      = "pcidss.network_access_monitored"
	FactPCISecurityTesting        = "pcidss.security_testing_performed"
	FactPCISecurityPolicy         = "pcidss.security_policy_maintained"

	// ISO 27001
	FactISOScopeDefined         = "iso27001.isms_scope_defined"
	FactISORiskAssessment       = "iso27001.risk_assessment_current"
	FactISOAnnexAControls       = "iso27001.annex_a_controls_implemented"
	FactISOAssetInventory       = "iso27001.asset_inventory_maintained"
	FactISOAccessManagement     = "iso27001.access_management_controls"
	FactISOIncidentManagement   = "iso27001.incident_management_process"
	FactISOBusinessContinuity   = "iso27001.business_continuity_planned"
	FactISOInternalAudit        = "iso27001.internal_audit_performed"
	FactISOManagementReview     = "iso27001.management_review_performed"
	FactISOContinualImprovement = "iso27001.continual_improvement"
)

// FactProvider 合规事实提供方接口
// 检测逻辑（加密是否开启、访问控制是否生效等）由外部协作方实现，
// 检查器只负责聚合，不负责计算
type FactProvider interface {
	// CheckFact 查询一个命名布尔事实
	CheckFact(ctx context.Context, name string) (bool, error)
}

// StaticFactProvider 基于固定映射的事实提供方
// 用于测试以及从配置静态装配事实
type StaticFactProvider struct {
	facts        map[string]bool
	defaultValue bool
}

// NewStaticFactProvider 创建静态事实提供方
// 未列出的事实返回 defaultValue
func NewStaticFactProvider(facts map[string]bool, defaultValue bool) *StaticFactProvider {
	copied := make(map[string]bool, len(facts))
	for k, v := range facts {
		copied[k] = v
	}
	return &StaticFactProvider{
		facts:        copied,
		defaultValue: defaultValue,
	}
}

// CheckFact 查询事实
func (p *StaticFactProvider) CheckFact(_ context.Context, name string) (bool, error) {
	if v, ok := p.facts[name]; ok {
		return v, nil
	}
	return p.defaultValue, nil
}

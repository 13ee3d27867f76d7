package check

import (
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
)

// Status 单个标准的合规检查结果
// 所有实现都是不可变的扁平记录：一组命名布尔子检查项加时间戳
type Status interface {
	// Standard 返回该结果所属的合规标准
	Standard() standard.Standard

	// SubChecks 返回子检查项名称到布尔结果的映射
	SubChecks() map[string]bool
}

// GDPRStatus GDPR 合规状态
type GDPRStatus struct {
	// 处理原则
	LawfulBasisDocumented    bool `json:"lawful_basis_documented"`
	ConsentManagementEnabled bool `json:"consent_management_enabled"`
	DataMinimizationApplied  bool `json:"data_minimization_applied"`
	PurposeLimitationApplied bool `json:"purpose_limitation_applied"`
	StorageLimitationApplied bool `json:"storage_limitation_applied"`
	DataAccuracyMaintained   bool `json:"data_accuracy_maintained"`

	// 数据主体权利
	RightOfAccessImplemented      bool `json:"right_of_access_implemented"`
	RightToRectification          bool `json:"right_to_rectification"`
	RightToErasureImplemented     bool `json:"right_to_erasure_implemented"`
	RightToDataPortability        bool `json:"right_to_data_portability"`
	RightToObjectImplemented      bool `json:"right_to_object_implemented"`
	RightToRestrictionImplemented bool `json:"right_to_restriction_implemented"`

	// 数据保护措施
	EncryptionEnabled       bool `json:"encryption_enabled"`
	AccessControlEnforced   bool `json:"access_control_enforced"`
	BackupProceduresInPlace bool `json:"backup_procedures_in_place"`
	IncidentResponseReady   bool `json:"incident_response_ready"`
	StaffTrainingCompleted  bool `json:"staff_training_completed"`

	// 数据泄露程序
	BreachDetectionProcedures     bool `json:"breach_detection_procedures"`
	BreachNotificationProcedures  bool `json:"breach_notification_procedures"`
	BreachDocumentationProcedures bool `json:"breach_documentation_procedures"`
	BreachReviewProcedures        bool `json:"breach_review_procedures"`

	// 国际传输
	AdequacyDecisionsVerified bool `json:"adequacy_decisions_verified"`
	SCCsInPlace               bool `json:"sccs_in_place"`
	BCRsApproved              bool `json:"bcrs_approved"`
	CodesOfConductSubscribed  bool `json:"codes_of_conduct_subscribed"`

	AssessedBy string    `json:"assessed_by"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *GDPRStatus) Standard() standard.Standard {
	return standard.GDPR
}

func (s *GDPRStatus) SubChecks() map[string]bool {
	return map[string]bool{
		FactGDPRLawfulBasis:           s.LawfulBasisDocumented,
		FactGDPRConsentManagement:     s.ConsentManagementEnabled,
		FactGDPRDataMinimization:      s.DataMinimizationApplied,
		FactGDPRPurposeLimitation:     s.PurposeLimitationApplied,
		FactGDPRStorageLimitation:     s.StorageLimitationApplied,
		FactGDPRDataAccuracy:          s.DataAccuracyMaintained,
		FactGDPRRightOfAccess:         s.RightOfAccessImplemented,
		FactGDPRRightToRectification:  s.RightToRectification,
		FactGDPRRightToErasure:        s.RightToErasureImplemented,
		FactGDPRRightToPortability:    s.RightToDataPortability,
		FactGDPRRightToObject:         s.RightToObjectImplemented,
		FactGDPRRightToRestriction:    s.RightToRestrictionImplemented,
		FactGDPREncryption:            s.EncryptionEnabled,
		FactGDPRAccessControl:         s.AccessControlEnforced,
		FactGDPRBackupProcedures:      s.BackupProceduresInPlace,
		FactGDPRIncidentResponse:      s.IncidentResponseReady,
		FactGDPRStaffTraining:         s.StaffTrainingCompleted,
		FactGDPRBreachDetection:       s.BreachDetectionProcedures,
		FactGDPRBreachNotification:    s.BreachNotificationProcedures,
		FactGDPRBreachDocumentation:   s.BreachDocumentationProcedures,
		FactGDPRBreachReview:          s.BreachReviewProcedures,
		FactGDPRAdequacyDecisions:     s.AdequacyDecisionsVerified,
		FactGDPRStandardClauses:       s.SCCsInPlace,
		FactGDPRBindingRules:          s.BCRsApproved,
		FactGDPRCodesOfConduct:        s.CodesOfConductSubscribed,
	}
}

// HIPAAStatus HIPAA 合规状态
type HIPAAStatus struct {
	AdministrativeSafeguards    bool `json:"administrative_safeguards"`
	PhysicalSafeguards          bool `json:"physical_safeguards"`
	TechnicalSafeguards         bool `json:"technical_safeguards"`
	PHIEncryptionAtRest         bool `json:"phi_encryption_at_rest"`
	PHIEncryptionInTransit      bool `json:"phi_encryption_in_transit"`
	AccessControlsEnforced      bool `json:"access_controls_enforced"`
	AuditControlsEnabled        bool `json:"audit_controls_enabled"`
	IntegrityControlsEnabled    bool `json:"integrity_controls_enabled"`
	BusinessAssociateAgreements bool `json:"business_associate_agreements"`
	BreachNotificationReady     bool `json:"breach_notification_ready"`
	WorkforceTrainingCurrent    bool `json:"workforce_training_current"`
	ContingencyPlanInPlace      bool `json:"contingency_plan_in_place"`

	AssessedBy string    `json:"assessed_by"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *HIPAAStatus) Standard() standard.Standard {
	return standard.HIPAA
}

func (s *HIPAAStatus) SubChecks() map[string]bool {
	return map[string]bool{
		FactHIPAAAdministrativeSafeguards: s.AdministrativeSafeguards,
		FactHIPAAPhysicalSafeguards:       s.PhysicalSafeguards,
		FactHIPAATechnicalSafeguards:      s.TechnicalSafeguards,
		FactHIPAAEncryptionAtRest:         s.PHIEncryptionAtRest,
		FactHIPAAEncryptionInTransit:      s.PHIEncryptionInTransit,
		FactHIPAAAccessControls:           s.AccessControlsEnforced,
		FactHIPAAAuditControls:            s.AuditControlsEnabled,
		FactHIPAAIntegrityControls:        s.IntegrityControlsEnabled,
		FactHIPAABusinessAssociates:       s.BusinessAssociateAgreements,
		FactHIPAABreachNotification:       s.BreachNotificationReady,
		FactHIPAAWorkforceTraining:        s.WorkforceTrainingCurrent,
		FactHIPAAContingencyPlan:          s.ContingencyPlanInPlace,
	}
}

// SOXStatus SOX 合规状态
type SOXStatus struct {
	ChangeManagementControls bool `json:"change_management_controls"`
	AccessReviewsPerformed   bool `json:"access_reviews_performed"`
	SegregationOfDuties      bool `json:"segregation_of_duties"`
	AuditLoggingEnabled      bool `json:"audit_logging_enabled"`
	FinancialDataIntegrity   bool `json:"financial_data_integrity"`
	ITGeneralControlsTested  bool `json:"it_general_controls_tested"`
	RetentionPolicyEnforced  bool `json:"retention_policy_enforced"`
	ManagementCertification  bool `json:"management_certification"`

	AssessedBy string    `json:"assessed_by"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *SOXStatus) Standard() standard.Standard {
	return standard.SOX
}

func (s *SOXStatus) SubChecks() map[string]bool {
	return map[string]bool{
		FactSOXChangeManagement:        s.ChangeManagementControls,
		FactSOXAccessReviews:           s.AccessReviewsPerformed,
		FactSOXSegregationOfDuties:     s.SegregationOfDuties,
		FactSOXAuditLogging:            s.AuditLoggingEnabled,
		FactSOXFinancialDataIntegrity:  s.FinancialDataIntegrity,
		FactSOXITGeneralControls:       s.ITGeneralControlsTested,
		FactSOXRetentionPolicy:         s.RetentionPolicyEnforced,
		FactSOXManagementCertification: s.ManagementCertification,
	}
}

// PCIDSSStatus PCI DSS 合规状态
// 十二项要求压缩为命名布尔检查项
type PCIDSSStatus struct {
	FirewallConfigurationMaintained bool `json:"firewall_configuration_maintained"`
	VendorDefaultsChanged           bool `json:"vendor_defaults_changed"`
	CardholderDataProtected         bool `json:"cardholder_data_protected"`
	TransmissionEncryptionEnabled   bool `json:"transmission_encryption_enabled"`
	AntiMalwareDeployed             bool `json:"anti_malware_deployed"`
	SecureSystemsMaintained         bool `json:"secure_systems_maintained"`
	AccessRestrictedByNeedToKnow    bool `json:"access_restricted_by_need_to_know"`
	UniqueIDsAssigned               bool `json:"unique_ids_assigned"`
	PhysicalAccessRestricted        bool `json:"physical_access_restricted"`
	NetworkAccessMonitored          bool `json:"network_access_monitored"`
	SecurityTestingPerformed        bool `json:"security_testing_performed"`
	SecurityPolicyMaintained        bool `json:"security_policy_maintained"`

	AssessedBy string    `json:"assessed_by"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *PCIDSSStatus) Standard() standard.Standard {
	return standard.PCIDSS
}

func (s *PCIDSSStatus) SubChecks() map[string]bool {
	return map[string]bool{
		FactPCIFirewallConfiguration: s.FirewallConfigurationMaintained,
		FactPCIVendorDefaults:        s.VendorDefaultsChanged,
		FactPCICardholderData:        s.CardholderDataProtected,
		FactPCITransmissionEncryption: s.TransmissionEncryptionEnabled,
		FactPCIAntiMalware:           s.AntiMalwareDeployed,
		FactPCISecureSystems:         s.SecureSystemsMaintained,
		FactPCINeedToKnowAccess:      s.AccessRestrictedByNeedToKnow,
		FactPCIUniqueIDs:             s.UniqueIDsAssigned,
		FactPCIPhysicalAccess:        s.PhysicalAccessRestricted,
		FactPCINetworkMonitoring:     s.NetworkAccessMonitored,
		FactPCISecurityTesting:       s.SecurityTestingPerformed,
		FactPCISecurityPolicy:        s.SecurityPolicyMaintained,
	}
}

// ISO27001Status ISO 27001 合规状态
type ISO27001Status struct {
	ISMSScopeDefined          bool `json:"isms_scope_defined"`
	RiskAssessmentCurrent     bool `json:"risk_assessment_current"`
	AnnexAControlsImplemented bool `json:"annex_a_controls_implemented"`
	AssetInventoryMaintained  bool `json:"asset_inventory_maintained"`
	AccessManagementControls  bool `json:"access_management_controls"`
	IncidentManagementProcess bool `json:"incident_management_process"`
	BusinessContinuityPlanned bool `json:"business_continuity_planned"`
	InternalAuditPerformed    bool `json:"internal_audit_performed"`
	ManagementReviewPerformed bool `json:"management_review_performed"`
	ContinualImprovement      bool `json:"continual_improvement"`

	AssessedBy string    `json:"assessed_by"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *ISO27001Status) Standard() standard.Standard {
	return standard.ISO27001
}

func (s *ISO27001Status) SubChecks() map[string]bool {
	return map[string]bool{
		FactISOScopeDefined:         s.ISMSScopeDefined,
		FactISORiskAssessment:       s.RiskAssessmentCurrent,
		FactISOAnnexAControls:       s.AnnexAControlsImplemented,
		FactISOAssetInventory:       s.AssetInventoryMaintained,
		FactISOAccessManagement:     s.AccessManagementControls,
		FactISOIncidentManagement:   s.IncidentManagementProcess,
		FactISOBusinessContinuity:   s.BusinessContinuityPlanned,
		FactISOInternalAudit:        s.InternalAuditPerformed,
		FactISOManagementReview:     s.ManagementReviewPerformed,
		FactISOContinualImprovement: s.ContinualImprovement,
	}
}

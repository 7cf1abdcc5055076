package repository

import (
	"context"

	"servicelink/internal/model"

	"gorm.io/gorm"
)

// RuleTables bundles the three approval-rule tables the engine consumes.
type RuleTables struct {
	ByRequestType []model.ApprovalRuleByRequestType
	ByDesignation []model.ApprovalRuleByDesignation
	ByDepartment  []model.ApprovalRuleByDepartment
}

// ApprovalRuleRepository loads and maintains the approval-rule tables.
type ApprovalRuleRepository interface {
	LoadAll(ctx context.Context) (RuleTables, error)

	ListDepartmentRules(ctx context.Context) ([]model.ApprovalRuleByDepartment, error)
	ListDesignationRules(ctx context.Context) ([]model.ApprovalRuleByDesignation, error)
	ListRequestTypeRules(ctx context.Context) ([]model.ApprovalRuleByRequestType, error)

	CreateDepartmentRule(ctx context.Context, rule *model.ApprovalRuleByDepartment) error
	CreateDesignationRule(ctx context.Context, rule *model.ApprovalRuleByDesignation) error
	CreateRequestTypeRule(ctx context.Context, rule *model.ApprovalRuleByRequestType) error

	DeleteDepartmentRule(ctx context.Context, id string) error
	DeleteDesignationRule(ctx context.Context, id string) error
	DeleteRequestTypeRule(ctx context.Context, id string) error
}

type approvalRuleRepository struct {
	db *gorm.DB
}

func NewApprovalRuleRepository(db *gorm.DB) ApprovalRuleRepository {
	return &approvalRuleRepository{db: db}
}

// LoadAll fetches all three tables at once so the rule engine sees a
// consistent snapshot within the caller's transaction.
func (r *approvalRuleRepository) LoadAll(ctx context.Context) (RuleTables, error) {
	var tables RuleTables
	db := GetDB(ctx, r.db)

	if err := db.Find(&tables.ByRequestType).Error; err != nil {
		return RuleTables{}, err
	}
	if err := db.Find(&tables.ByDesignation).Error; err != nil {
		return RuleTables{}, err
	}
	if err := db.Find(&tables.ByDepartment).Error; err != nil {
		return RuleTables{}, err
	}
	return tables, nil
}

func (r *approvalRuleRepository) ListDepartmentRules(ctx context.Context) ([]model.ApprovalRuleByDepartment, error) {
	var rules []model.ApprovalRuleByDepartment
	if err := GetDB(ctx, r.db).Preload("Position").Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *approvalRuleRepository) ListDesignationRules(ctx context.Context) ([]model.ApprovalRuleByDesignation, error) {
	var rules []model.ApprovalRuleByDesignation
	if err := GetDB(ctx, r.db).Preload("Position").Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *approvalRuleRepository) ListRequestTypeRules(ctx context.Context) ([]model.ApprovalRuleByRequestType, error) {
	var rules []model.ApprovalRuleByRequestType
	if err := GetDB(ctx, r.db).Preload("Position").Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *approvalRuleRepository) CreateDepartmentRule(ctx context.Context, rule *model.ApprovalRuleByDepartment) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *approvalRuleRepository) CreateDesignationRule(ctx context.Context, rule *model.ApprovalRuleByDesignation) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *approvalRuleRepository) CreateRequestTypeRule(ctx context.Context, rule *model.ApprovalRuleByRequestType) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *approvalRuleRepository) DeleteDepartmentRule(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ApprovalRuleByDepartment{}).Error
}

func (r *approvalRuleRepository) DeleteDesignationRule(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ApprovalRuleByDesignation{}).Error
}

func (r *approvalRuleRepository) DeleteRequestTypeRule(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ApprovalRuleByRequestType{}).Error
}

// Package businessflow contains the core business logic and use cases for contractor management
package businessflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
	"gorm.io/gorm"
)

// ContractorFlow handles the contractor ledger: listing, duplicate-cluster
// detection, and merging duplicates into a surviving record.
type ContractorFlow interface {
	List(ctx context.Context, req *dto.ListContractorsRequest, metadata *ClientMetadata) (*dto.ListContractorsResponse, error)
	Duplicates(ctx context.Context, metadata *ClientMetadata) (*dto.ListDuplicatesResponse, error)
	Merge(ctx context.Context, req *dto.MergeContractorsRequest, adminID uint, metadata *ClientMetadata) (*dto.MergeContractorsResponse, error)
}

type ContractorFlowImpl struct {
	contractorRepo repository.ContractorRepository
	appRepo        repository.ApplicationRepository
	auditRepo      repository.AuditLogRepository
	db             *gorm.DB
}

func NewContractorFlow(
	contractorRepo repository.ContractorRepository,
	appRepo repository.ApplicationRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ContractorFlow {
	return &ContractorFlowImpl{
		contractorRepo: contractorRepo,
		appRepo:        appRepo,
		auditRepo:      auditRepo,
		db:             db,
	}
}

func (f *ContractorFlowImpl) List(ctx context.Context, req *dto.ListContractorsRequest, metadata *ClientMetadata) (*dto.ListContractorsResponse, error) {
	filter := models.ContractorFilter{}
	page, limit := 1, 50
	if req != nil {
		filter.Name = req.Name
		if req.Mobile != nil {
			mobile := utils.NormalizeMobile(*req.Mobile)
			filter.Mobile = &mobile
		}
		filter.Merged = req.Merged
		if req.Page > 0 {
			page = req.Page
		}
		if req.Limit > 0 {
			limit = req.Limit
		}
	}

	total, err := f.contractorRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONTRACTOR_LIST_FAILED", "Failed to count contractors", err)
	}
	contractors, err := f.contractorRepo.ByFilter(ctx, filter, "id ASC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("CONTRACTOR_LIST_FAILED", "Failed to list contractors", err)
	}

	items := make([]dto.ContractorDTO, 0, len(contractors))
	for _, c := range contractors {
		items = append(items, ToContractorDTO(*c))
	}
	return &dto.ListContractorsResponse{
		Message: "Contractors retrieved successfully",
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// Duplicates clusters unmerged contractors by normalized name plus mobile.
// Only clusters with two or more members are returned.
func (f *ContractorFlowImpl) Duplicates(ctx context.Context, metadata *ClientMetadata) (*dto.ListDuplicatesResponse, error) {
	contractors, err := f.contractorRepo.ListUnmerged(ctx)
	if err != nil {
		return nil, NewBusinessError("CONTRACTOR_DUPLICATES_FAILED", "Failed to load contractors", err)
	}

	clusters := make(map[string][]dto.ContractorDTO)
	for _, c := range contractors {
		key := duplicateKey(c.Name, c.Mobile)
		clusters[key] = append(clusters[key], ToContractorDTO(*c))
	}

	keys := make([]string, 0, len(clusters))
	for key, members := range clusters {
		if len(members) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	groups := make([]dto.DuplicateGroupDTO, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, dto.DuplicateGroupDTO{
			Key:     key,
			Members: clusters[key],
		})
	}

	return &dto.ListDuplicatesResponse{
		Message: "Duplicate contractor clusters retrieved",
		Groups:  groups,
	}, nil
}

// Merge folds the source contractors into the target in one transaction:
// applications pointing at a source are reassigned to the target, the source
// is marked merged and deactivated. Merging is not reversible.
func (f *ContractorFlowImpl) Merge(ctx context.Context, req *dto.MergeContractorsRequest, adminID uint, metadata *ClientMetadata) (*dto.MergeContractorsResponse, error) {
	if req == nil || len(req.SourceIDs) == 0 {
		return nil, NewBusinessError("CONTRACTOR_MERGE_VALIDATION_FAILED", "Merge sources are required", ErrContractorNotFound)
	}

	target, err := f.contractorRepo.ByID(ctx, req.TargetID)
	if err != nil {
		return nil, NewBusinessError("CONTRACTOR_LOOKUP_FAILED", "Failed to load target contractor", err)
	}
	if target == nil {
		return nil, NewBusinessError("CONTRACTOR_NOT_FOUND", "Target contractor not found", ErrContractorNotFound)
	}
	if target.MergedIntoID != nil {
		return nil, NewBusinessError("CONTRACTOR_ALREADY_MERGED", "Target contractor is itself merged", ErrContractorAlreadyMerged)
	}

	sources := make([]*models.Contractor, 0, len(req.SourceIDs))
	for _, sourceID := range req.SourceIDs {
		if sourceID == req.TargetID {
			return nil, NewBusinessError("CONTRACTOR_SELF_MERGE", "Cannot merge a contractor into itself", ErrContractorSelfMerge)
		}
		source, err := f.contractorRepo.ByID(ctx, sourceID)
		if err != nil {
			return nil, NewBusinessError("CONTRACTOR_LOOKUP_FAILED", "Failed to load source contractor", err)
		}
		if source == nil {
			return nil, NewBusinessError("CONTRACTOR_NOT_FOUND", fmt.Sprintf("Source contractor %d not found", sourceID), ErrContractorNotFound)
		}
		if source.MergedIntoID != nil {
			return nil, NewBusinessError("CONTRACTOR_ALREADY_MERGED", fmt.Sprintf("Source contractor %d is already merged", sourceID), ErrContractorAlreadyMerged)
		}
		sources = append(sources, source)
	}

	var reassigned int64
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, source := range sources {
			appCount, err := f.appRepo.Count(txCtx, models.ApplicationFilter{ContractorID: &source.ID})
			if err != nil {
				return err
			}
			if err := f.appRepo.ReassignContractor(txCtx, source.ID, target.ID); err != nil {
				return err
			}
			reassigned += appCount

			now := utils.UTCNow()
			inactive := false
			source.MergedIntoID = &target.ID
			source.IsActive = &inactive
			source.UpdatedAt = now
			if err := f.contractorRepo.Save(txCtx, source); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("CONTRACTOR_MERGE_FAILED", "Failed to merge contractors", err)
	}

	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionContractorMerged,
		fmt.Sprintf("Merged %d contractors into %d", len(sources), target.ID), metadata,
		map[string]any{"target_id": target.ID, "source_ids": req.SourceIDs, "reassigned_applications": reassigned})

	return &dto.MergeContractorsResponse{
		Message:        "Contractors merged successfully",
		MergedCount:    len(sources),
		ReassignedApps: reassigned,
	}, nil
}

// duplicateKey normalizes a contractor's identity for duplicate clustering
func duplicateKey(name, mobile string) string {
	return utils.NormalizeSpaces(name) + "|" + utils.NormalizeMobile(mobile)
}

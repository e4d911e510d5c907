// Package businessflow contains the core business logic and use cases for tag management
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/config"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/redis/go-redis/v9"
)

// tagListCacheTTL bounds staleness if an invalidation is ever missed
const tagListCacheTTL = 12 * time.Hour

// TagFlow handles admin management of sim-location and spare tags.
// Tag lists back dropdowns on the line screen and change rarely, so the full
// list per type is cached in redis and invalidated on every write.
type TagFlow interface {
	Create(ctx context.Context, req *dto.CreateTagRequest, adminID uint, metadata *ClientMetadata) (*dto.TagDTO, error)
	Update(ctx context.Context, tagID uint, req *dto.UpdateTagRequest, adminID uint, metadata *ClientMetadata) (*dto.TagDTO, error)
	List(ctx context.Context, req *dto.ListTagsRequest, metadata *ClientMetadata) (*dto.ListTagsResponse, error)
}

type TagFlowImpl struct {
	tagRepo     repository.TagRepository
	auditRepo   repository.AuditLogRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

func NewTagFlow(
	tagRepo repository.TagRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) TagFlow {
	return &TagFlowImpl{
		tagRepo:     tagRepo,
		auditRepo:   auditRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

func (f *TagFlowImpl) Create(ctx context.Context, req *dto.CreateTagRequest, adminID uint, metadata *ClientMetadata) (*dto.TagDTO, error) {
	if req == nil {
		return nil, NewBusinessError("TAG_VALIDATION_FAILED", "Create tag validation failed", ErrTagNameRequired)
	}
	name := utils.NormalizeSpaces(req.Name)
	if name == "" {
		return nil, NewBusinessError("TAG_NAME_REQUIRED", "Tag name is required", ErrTagNameRequired)
	}
	tagType := models.TagType(req.Type)
	if !tagType.Valid() {
		return nil, NewBusinessError("TAG_TYPE_INVALID", fmt.Sprintf("Unknown tag type %q", req.Type), ErrTagTypeInvalid)
	}

	// Names are unique per type, not globally
	existing, err := f.tagRepo.ByTypeAndName(ctx, tagType, name)
	if err != nil {
		return nil, NewBusinessError("TAG_CREATE_FAILED", "Failed to check tag uniqueness", err)
	}
	if existing != nil {
		return nil, NewBusinessError("TAG_EXISTS", "Tag already exists for this type", ErrTagAlreadyExists)
	}

	tag := models.Tag{
		UUID:      uuid.New(),
		Name:      name,
		Type:      tagType,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := f.tagRepo.Save(ctx, &tag); err != nil {
		return nil, NewBusinessError("TAG_CREATE_FAILED", "Failed to save tag", err)
	}

	f.invalidateList(ctx, tagType)
	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionTagCreated,
		fmt.Sprintf("Tag %q (%s) created", name, tagType), metadata, map[string]any{"tag_id": tag.ID})

	result := ToTagDTO(tag)
	return &result, nil
}

func (f *TagFlowImpl) Update(ctx context.Context, tagID uint, req *dto.UpdateTagRequest, adminID uint, metadata *ClientMetadata) (*dto.TagDTO, error) {
	tag, err := f.tagRepo.ByID(ctx, tagID)
	if err != nil {
		return nil, NewBusinessError("TAG_LOOKUP_FAILED", "Failed to load tag", err)
	}
	if tag == nil {
		return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
	}

	name := utils.NormalizeSpaces(req.Name)
	if name == "" {
		return nil, NewBusinessError("TAG_NAME_REQUIRED", "Tag name is required", ErrTagNameRequired)
	}
	if name != tag.Name {
		existing, err := f.tagRepo.ByTypeAndName(ctx, tag.Type, name)
		if err != nil {
			return nil, NewBusinessError("TAG_UPDATE_FAILED", "Failed to check tag uniqueness", err)
		}
		if existing != nil {
			return nil, NewBusinessError("TAG_EXISTS", "Tag already exists for this type", ErrTagAlreadyExists)
		}
	}

	tag.Name = name
	tag.UpdatedAt = utils.UTCNow()
	if err := f.tagRepo.Save(ctx, tag); err != nil {
		return nil, NewBusinessError("TAG_UPDATE_FAILED", "Failed to save tag", err)
	}

	f.invalidateList(ctx, tag.Type)
	_ = recordAudit(ctx, f.auditRepo, &adminID, models.AuditActionTagUpdated,
		fmt.Sprintf("Tag %d renamed to %q", tag.ID, name), metadata, map[string]any{"tag_id": tag.ID})

	result := ToTagDTO(*tag)
	return &result, nil
}

func (f *TagFlowImpl) List(ctx context.Context, req *dto.ListTagsRequest, metadata *ClientMetadata) (*dto.ListTagsResponse, error) {
	var tagType *models.TagType
	if req != nil && req.Type != nil {
		t := models.TagType(*req.Type)
		if !t.Valid() {
			return nil, NewBusinessError("TAG_TYPE_INVALID", fmt.Sprintf("Unknown tag type %q", *req.Type), ErrTagTypeInvalid)
		}
		tagType = &t
	}

	// try redis first
	cacheKey := f.listCacheKey(tagType)
	if f.rc != nil {
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var items []dto.TagDTO
			if err := json.Unmarshal(bs, &items); err == nil {
				return &dto.ListTagsResponse{
					Message: "Tags retrieved from cache",
					Items:   items,
				}, nil
			}
		}
	}

	var tags []*models.Tag
	var err error
	if tagType != nil {
		tags, err = f.tagRepo.ListByType(ctx, *tagType)
	} else {
		tags, err = f.tagRepo.ByFilter(ctx, models.TagFilter{}, "type ASC, name ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("TAG_LIST_FAILED", "Failed to list tags", err)
	}

	items := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		items = append(items, ToTagDTO(*tag))
	}

	if f.rc != nil {
		if bs, err := json.Marshal(items); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, tagListCacheTTL).Err()
		}
	}

	return &dto.ListTagsResponse{
		Message: "Tags retrieved successfully",
		Items:   items,
	}, nil
}

func (f *TagFlowImpl) listCacheKey(tagType *models.TagType) string {
	suffix := "all"
	if tagType != nil {
		suffix = string(*tagType)
	}
	return redisKey(*f.cacheConfig, utils.TagListCacheKey+":"+suffix)
}

// invalidateList drops every cached tag listing after a write
func (f *TagFlowImpl) invalidateList(ctx context.Context, tagType models.TagType) {
	if f.rc == nil {
		return
	}
	_ = f.rc.Del(ctx,
		redisKey(*f.cacheConfig, utils.TagListCacheKey+":all"),
		redisKey(*f.cacheConfig, utils.TagListCacheKey+":"+string(tagType)),
	).Err()
}

// redisKey namespaces a cache key with the configured prefix
func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

package repositories

import (
	"context"
	"errors"

	"subtrack_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupMemberExists = errors.New("subscriber already in group")
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, organizationID, id string) (*models.Group, error)
	// List возвращает группы организации, свежие первыми,
	// с подсчитанным числом участников.
	List(ctx context.Context, organizationID string) ([]models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, organizationID, id string) error

	AddMember(ctx context.Context, groupID, subscriberID string) error
	RemoveMember(ctx context.Context, groupID, subscriberID string) error
	ListMembers(ctx context.Context, groupID string) ([]models.Subscriber, error)
}

type GroupRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GroupRepositoryImpl{db: db}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GroupRepositoryImpl) FindByID(ctx context.Context, organizationID, id string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) List(ctx context.Context, organizationID string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Model(&models.Group{}).
		Where("organization_id = ?", organizationID).
		Select("groups.*, (SELECT COUNT(*) FROM group_subscribers gs WHERE gs.group_id = groups.id) AS member_count").
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GroupRepositoryImpl) Update(ctx context.Context, group *models.Group) error {
	result := r.db.WithContext(ctx).Model(group).Updates(map[string]interface{}{
		"name":        group.Name,
		"description": group.Description,
		"color":       group.Color,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupSubscriber{}).Error; err != nil {
			return err
		}

		result := tx.Where("organization_id = ? AND id = ?", organizationID, id).
			Delete(&models.Group{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
}

func (r *GroupRepositoryImpl) AddMember(ctx context.Context, groupID, subscriberID string) error {
	err := r.db.WithContext(ctx).Create(&models.GroupSubscriber{
		GroupID:      groupID,
		SubscriberID: subscriberID,
	}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrGroupMemberExists
	}
	return err
}

func (r *GroupRepositoryImpl) RemoveMember(ctx context.Context, groupID, subscriberID string) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND subscriber_id = ?", groupID, subscriberID).
		Delete(&models.GroupSubscriber{}).Error
}

func (r *GroupRepositoryImpl) ListMembers(ctx context.Context, groupID string) ([]models.Subscriber, error) {
	var subscribers []models.Subscriber
	err := r.db.WithContext(ctx).
		Joins("JOIN group_subscribers gs ON gs.subscriber_id = subscribers.id").
		Where("gs.group_id = ?", groupID).
		Order("subscribers.name ASC").
		Find(&subscribers).Error
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}

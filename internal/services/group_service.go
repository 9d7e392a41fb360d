package services

import (
	"context"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type GroupService interface {
	// List - все группы организации с числом участников, свежие первыми
	List(ctx context.Context, organizationID string) ([]models.Group, error)
	Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateGroupRequest) (*models.Group, error)
	Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, organizationID string, userID *string, id string) error

	Members(ctx context.Context, organizationID, groupID string) ([]models.Subscriber, error)
	AddMember(ctx context.Context, organizationID string, userID *string, groupID string, req *dto.AddGroupMemberRequest) error
	RemoveMember(ctx context.Context, organizationID string, userID *string, groupID, subscriberID string) error
}

type GroupServiceImpl struct {
	groupRepo      repositories.GroupRepository
	subscriberRepo repositories.SubscriberRepository
	activity       ActivityService
}

func NewGroupService(groupRepo repositories.GroupRepository, subscriberRepo repositories.SubscriberRepository, activity ActivityService) GroupService {
	return &GroupServiceImpl{
		groupRepo:      groupRepo,
		subscriberRepo: subscriberRepo,
		activity:       activity,
	}
}

func (s *GroupServiceImpl) List(ctx context.Context, organizationID string) ([]models.Group, error) {
	groups, err := s.groupRepo.List(ctx, organizationID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return groups, nil
}

func (s *GroupServiceImpl) Create(ctx context.Context, organizationID string, userID *string, req *dto.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		OrganizationID: organizationID,
		Name:           req.Name,
		Description:    req.Description,
		Color:          req.Color,
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionGroupCreated, models.EntityTypeGroup, &group.ID, map[string]interface{}{
		"name": group.Name,
	})

	return group, nil
}

func (s *GroupServiceImpl) Update(ctx context.Context, organizationID string, userID *string, id string, req *dto.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.findGroup(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.Description = req.Description
	group.Color = req.Color

	if err := s.groupRepo.Update(ctx, group); err != nil {
		if apperrors.Is(err, repositories.ErrGroupNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionGroupUpdated, models.EntityTypeGroup, &group.ID, map[string]interface{}{
		"name": group.Name,
	})

	return group, nil
}

func (s *GroupServiceImpl) Delete(ctx context.Context, organizationID string, userID *string, id string) error {
	group, err := s.findGroup(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, organizationID, id); err != nil {
		if apperrors.Is(err, repositories.ErrGroupNotFound) {
			return apperrors.ErrGroupNotFound
		}
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionGroupDeleted, models.EntityTypeGroup, &id, map[string]interface{}{
		"name": group.Name,
	})

	return nil
}

func (s *GroupServiceImpl) Members(ctx context.Context, organizationID, groupID string) ([]models.Subscriber, error) {
	if _, err := s.findGroup(ctx, organizationID, groupID); err != nil {
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return members, nil
}

func (s *GroupServiceImpl) AddMember(ctx context.Context, organizationID string, userID *string, groupID string, req *dto.AddGroupMemberRequest) error {
	group, err := s.findGroup(ctx, organizationID, groupID)
	if err != nil {
		return err
	}

	subscriber, err := s.subscriberRepo.FindByID(ctx, organizationID, req.SubscriberID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriberNotFound) {
			return apperrors.ErrSubscriberNotFound
		}
		return apperrors.StorageError(err)
	}

	if err := s.groupRepo.AddMember(ctx, groupID, req.SubscriberID); err != nil {
		if apperrors.Is(err, repositories.ErrGroupMemberExists) {
			return apperrors.ErrGroupMemberExists
		}
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionGroupMemberAdded, models.EntityTypeGroup, &groupID, map[string]interface{}{
		"group":      group.Name,
		"subscriber": subscriber.Name,
	})

	return nil
}

func (s *GroupServiceImpl) RemoveMember(ctx context.Context, organizationID string, userID *string, groupID, subscriberID string) error {
	group, err := s.findGroup(ctx, organizationID, groupID)
	if err != nil {
		return err
	}

	if err := s.groupRepo.RemoveMember(ctx, groupID, subscriberID); err != nil {
		return apperrors.StorageError(err)
	}

	s.activity.Log(ctx, organizationID, userID, ActionGroupMemberRemoved, models.EntityTypeGroup, &groupID, map[string]interface{}{
		"group":         group.Name,
		"subscriber_id": subscriberID,
	})

	return nil
}

func (s *GroupServiceImpl) findGroup(ctx context.Context, organizationID, id string) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrGroupNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.StorageError(err)
	}
	return group, nil
}

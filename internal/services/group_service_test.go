package services

import (
	"context"
	"fmt"
	"testing"

	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGroupRepo struct {
	groups  []models.Group
	members map[string][]string // group id -> subscriber ids
	seq     int
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{members: map[string][]string{}}
}

func (r *stubGroupRepo) Create(_ context.Context, group *models.Group) error {
	r.seq++
	group.ID = fmt.Sprintf("grp-%d", r.seq)
	r.groups = append(r.groups, *group)
	return nil
}

func (r *stubGroupRepo) FindByID(_ context.Context, organizationID, id string) (*models.Group, error) {
	for i := range r.groups {
		if r.groups[i].ID == id && r.groups[i].OrganizationID == organizationID {
			group := r.groups[i]
			return &group, nil
		}
	}
	return nil, repositories.ErrGroupNotFound
}

func (r *stubGroupRepo) List(_ context.Context, organizationID string) ([]models.Group, error) {
	var out []models.Group
	for _, group := range r.groups {
		if group.OrganizationID != organizationID {
			continue
		}
		group.MemberCount = int64(len(r.members[group.ID]))
		out = append(out, group)
	}
	return out, nil
}

func (r *stubGroupRepo) Update(_ context.Context, group *models.Group) error {
	for i := range r.groups {
		if r.groups[i].ID == group.ID {
			r.groups[i] = *group
			return nil
		}
	}
	return repositories.ErrGroupNotFound
}

func (r *stubGroupRepo) Delete(_ context.Context, organizationID, id string) error {
	for i := range r.groups {
		if r.groups[i].ID == id && r.groups[i].OrganizationID == organizationID {
			r.groups = append(r.groups[:i], r.groups[i+1:]...)
			delete(r.members, id)
			return nil
		}
	}
	return repositories.ErrGroupNotFound
}

func (r *stubGroupRepo) AddMember(_ context.Context, groupID, subscriberID string) error {
	for _, id := range r.members[groupID] {
		if id == subscriberID {
			return repositories.ErrGroupMemberExists
		}
	}
	r.members[groupID] = append(r.members[groupID], subscriberID)
	return nil
}

func (r *stubGroupRepo) RemoveMember(_ context.Context, groupID, subscriberID string) error {
	ids := r.members[groupID]
	for i, id := range ids {
		if id == subscriberID {
			r.members[groupID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubGroupRepo) ListMembers(_ context.Context, groupID string) ([]models.Subscriber, error) {
	var out []models.Subscriber
	for _, id := range r.members[groupID] {
		out = append(out, models.Subscriber{BaseModel: models.BaseModel{ID: id}})
	}
	return out, nil
}

func groupFixture() (GroupService, *stubGroupRepo, *stubActivity) {
	repo := newStubGroupRepo()
	act := &stubActivity{}
	svc := NewGroupService(repo, &stubSubscriberRepo{known: map[string]bool{"sub-a": true}}, act)
	return svc, repo, act
}

func TestGroupService_CreateAndList(t *testing.T) {
	t.Parallel()

	svc, _, act := groupFixture()

	group, err := svc.Create(context.Background(), testOrgID, nil, &dto.CreateGroupRequest{Name: "VIP"})
	require.NoError(t, err)
	require.NotEmpty(t, group.ID)

	require.NoError(t, svc.AddMember(context.Background(), testOrgID, nil, group.ID, &dto.AddGroupMemberRequest{SubscriberID: "sub-a"}))

	groups, err := svc.List(context.Background(), testOrgID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(1), groups[0].MemberCount, "листинг отдает число участников")

	require.Len(t, act.entries, 2)
	assert.Equal(t, ActionGroupCreated, act.entries[0].action)
	assert.Equal(t, ActionGroupMemberAdded, act.entries[1].action)
}

func TestGroupService_AddMember_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _, _ := groupFixture()

	group, err := svc.Create(context.Background(), testOrgID, nil, &dto.CreateGroupRequest{Name: "VIP"})
	require.NoError(t, err)

	req := &dto.AddGroupMemberRequest{SubscriberID: "sub-a"}
	require.NoError(t, svc.AddMember(context.Background(), testOrgID, nil, group.ID, req))

	err = svc.AddMember(context.Background(), testOrgID, nil, group.ID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGroupMemberExists, "повторное добавление - конфликт")
}

func TestGroupService_AddMember_UnknownTargets(t *testing.T) {
	t.Parallel()

	svc, _, _ := groupFixture()

	group, err := svc.Create(context.Background(), testOrgID, nil, &dto.CreateGroupRequest{Name: "VIP"})
	require.NoError(t, err)

	err = svc.AddMember(context.Background(), testOrgID, nil, group.ID, &dto.AddGroupMemberRequest{SubscriberID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrSubscriberNotFound)

	err = svc.AddMember(context.Background(), testOrgID, nil, "missing-group", &dto.AddGroupMemberRequest{SubscriberID: "sub-a"})
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}

func TestGroupService_RemoveMember(t *testing.T) {
	t.Parallel()

	svc, repo, _ := groupFixture()

	group, err := svc.Create(context.Background(), testOrgID, nil, &dto.CreateGroupRequest{Name: "VIP"})
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(context.Background(), testOrgID, nil, group.ID, &dto.AddGroupMemberRequest{SubscriberID: "sub-a"}))

	require.NoError(t, svc.RemoveMember(context.Background(), testOrgID, nil, group.ID, "sub-a"))
	assert.Empty(t, repo.members[group.ID])

	members, err := svc.Members(context.Background(), testOrgID, group.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

package member

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	members map[string]Member
	deleted []string
}

func newFakeRepo(members ...Member) *fakeRepo {
	f := &fakeRepo{members: map[string]Member{}}
	for _, m := range members {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeRepo) List(ctx context.Context) ([]Member, error) {
	out := []Member{}
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Member, error) {
	m, ok := f.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) Create(ctx context.Context, in CreateInput) (Member, error) {
	m := Member{ID: "new", Name: in.Name, City: in.City, Status: in.Status}
	f.members[m.ID] = m
	return m, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, in UpdateInput) (Member, error) {
	m, ok := f.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Status != nil {
		m.Status = *in.Status
	}
	f.members[id] = m
	return m, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.members[id]; !ok {
		return ErrNotFound
	}
	delete(f.members, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLoanChecker struct {
	active map[string]bool
	err    error
}

func (f *fakeLoanChecker) HasActiveLoanForMember(ctx context.Context, memberID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[memberID], nil
}

func TestService_Create(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeLoanChecker{})

	created, err := svc.Create(context.Background(), CreateInput{Name: "ada lovelace", City: "London"})

	require.NoError(t, err)
	assert.Equal(t, "ADA LOVELACE", created.Name)
	assert.Equal(t, StatusActive, created.Status)
}

func TestService_Update_UppercasesName(t *testing.T) {
	svc := NewService(newFakeRepo(Member{ID: "m1", Name: "ADA"}), &fakeLoanChecker{})

	name := "grace hopper"
	updated, err := svc.Update(context.Background(), "m1", UpdateInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "GRACE HOPPER", updated.Name)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while an open loan exists", func(t *testing.T) {
		repo := newFakeRepo(Member{ID: "m1"})
		svc := NewService(repo, &fakeLoanChecker{active: map[string]bool{"m1": true}})

		err := svc.Delete(ctx, "m1")

		assert.ErrorIs(t, err, ErrHasActiveLoans)
		assert.Contains(t, repo.members, "m1")
	})

	t.Run("allowed once every loan is closed", func(t *testing.T) {
		repo := newFakeRepo(Member{ID: "m1"})
		svc := NewService(repo, &fakeLoanChecker{})

		require.NoError(t, svc.Delete(ctx, "m1"))
		assert.Equal(t, []string{"m1"}, repo.deleted)
	})

	t.Run("check failure aborts the delete", func(t *testing.T) {
		repo := newFakeRepo(Member{ID: "m1"})
		svc := NewService(repo, &fakeLoanChecker{err: assert.AnError})

		assert.Error(t, svc.Delete(ctx, "m1"))
		assert.Contains(t, repo.members, "m1")
	})

	t.Run("unknown member is not found", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakeLoanChecker{})
		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrNotFound)
	})
}

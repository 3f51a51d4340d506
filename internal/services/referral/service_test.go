package referral

import (
	"context"
	"testing"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errs.ErrUserNotFound
}

func (f *fakeUserRepo) GetByReferralCode(_ context.Context, code string) (*models.User, error) {
	for _, u := range f.users {
		if u.ReferralCode != nil && *u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (f *fakeUserRepo) Create(context.Context, *models.User) error { return nil }
func (f *fakeUserRepo) Update(context.Context, *models.User) error { return nil }
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errs.ErrUserNotFound
}
func (f *fakeUserRepo) GetByPhone(context.Context, string) (*models.User, error) {
	return nil, errs.ErrUserNotFound
}
func (f *fakeUserRepo) SetBlocked(context.Context, uint, bool) error       { return nil }
func (f *fakeUserRepo) UpdatePassword(context.Context, uint, string) error { return nil }
func (f *fakeUserRepo) IncrementTokenVersion(context.Context, uint) error  { return nil }
func (f *fakeUserRepo) List(context.Context, int, int) ([]models.User, int64, error) {
	return nil, 0, nil
}

// fakeEngine records the award call; everything else of the engine interface
// is unused here.
type fakeEngine struct {
	ledger.Service
	award *ledger.ReferralAward
	err   error
}

func (f *fakeEngine) AwardReferralCoins(_ context.Context, award ledger.ReferralAward) (*models.ReferralReward, error) {
	f.award = &award
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReferralReward{
		ReferrerID:    award.ReferrerID,
		RedeemerID:    award.RedeemerID,
		Code:          award.Code,
		ReferrerCoins: 200,
		RedeemerCoins: 100,
	}, nil
}

func userWithCode(id uint, code string) *models.User {
	u := &models.User{ReferralCode: &code}
	u.ID = id
	return u
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()

	t.Run("awards through the engine", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[uint]*models.User{1: userWithCode(1, "ALICE123")}}
		engine := &fakeEngine{}
		svc := NewService(repo, engine)

		reward, err := svc.Redeem(ctx, 2, "  alice123 ")
		require.NoError(t, err)

		require.NotNil(t, engine.award)
		assert.Equal(t, uint(1), engine.award.ReferrerID)
		assert.Equal(t, uint(2), engine.award.RedeemerID)
		assert.Equal(t, "ALICE123", engine.award.Code)
		assert.Equal(t, int64(200), reward.ReferrerCoins)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[uint]*models.User{}}
		engine := &fakeEngine{}
		svc := NewService(repo, engine)

		_, err := svc.Redeem(ctx, 2, "NOSUCH99")
		assert.ErrorIs(t, err, errs.ErrReferralCodeNotFound)
		assert.Nil(t, engine.award)
	})

	t.Run("empty code", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[uint]*models.User{}}
		svc := NewService(repo, &fakeEngine{})

		_, err := svc.Redeem(ctx, 2, "   ")
		assert.ErrorIs(t, err, errs.ErrReferralCodeNotFound)
	})

	t.Run("own code", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[uint]*models.User{1: userWithCode(1, "ALICE123")}}
		engine := &fakeEngine{}
		svc := NewService(repo, engine)

		_, err := svc.Redeem(ctx, 1, "ALICE123")
		assert.ErrorIs(t, err, errs.ErrSelfOperation)
		assert.Nil(t, engine.award)
	})

	t.Run("double redemption surfaces the engine error", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[uint]*models.User{1: userWithCode(1, "ALICE123")}}
		engine := &fakeEngine{err: errs.ErrAlreadyProcessed}
		svc := NewService(repo, engine)

		_, err := svc.Redeem(ctx, 2, "ALICE123")
		assert.ErrorIs(t, err, errs.ErrAlreadyProcessed)
	})
}

func TestGetCode(t *testing.T) {
	ctx := context.Background()

	repo := &fakeUserRepo{users: map[uint]*models.User{1: userWithCode(1, "ALICE123")}}
	svc := NewService(repo, &fakeEngine{})

	code, err := svc.GetCode(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ALICE123", code)

	_, err = svc.GetCode(ctx, 99)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

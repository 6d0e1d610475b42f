package service

import (
	"context"

	"rewear/internal/models"
	"rewear/internal/repository"
)

// Function-field stubs for the repository interfaces. Tests override only the
// fields they care about.

type itemRepoStub struct {
	createFn         func(context.Context, *models.Item) error
	getByIDFn        func(context.Context, uint, uint) (*models.Item, error)
	listFn           func(context.Context, repository.ItemFilter) ([]models.Item, int64, error)
	updateFn         func(context.Context, *models.Item) error
	softDeleteFn     func(context.Context, uint) error
	incrementViewsFn func(context.Context, uint) error
	restoreFn        func(context.Context, uint) (*models.Item, error)
	listFlaggedFn    func(context.Context, int, int) ([]models.Item, error)
	countFn          func(context.Context) (int64, error)
}

func (s *itemRepoStub) Create(ctx context.Context, item *models.Item) error {
	return s.createFn(ctx, item)
}
func (s *itemRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Item, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *itemRepoStub) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *itemRepoStub) Update(ctx context.Context, item *models.Item) error {
	return s.updateFn(ctx, item)
}
func (s *itemRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *itemRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *itemRepoStub) Restore(ctx context.Context, id uint) (*models.Item, error) {
	return s.restoreFn(ctx, id)
}
func (s *itemRepoStub) ListFlagged(ctx context.Context, limit, offset int) ([]models.Item, error) {
	return s.listFlaggedFn(ctx, limit, offset)
}
func (s *itemRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopItemRepo() *itemRepoStub {
	return &itemRepoStub{
		createFn: func(_ context.Context, _ *models.Item) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Item, error) {
			return &models.Item{ID: id, Status: models.ItemStatusAvailable}, nil
		},
		listFn: func(_ context.Context, _ repository.ItemFilter) ([]models.Item, int64, error) {
			return nil, 0, nil
		},
		updateFn:         func(_ context.Context, _ *models.Item) error { return nil },
		softDeleteFn:     func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		restoreFn: func(_ context.Context, id uint) (*models.Item, error) {
			return &models.Item{ID: id, Status: models.ItemStatusAvailable}, nil
		},
		listFlaggedFn: func(_ context.Context, _, _ int) ([]models.Item, error) { return nil, nil },
		countFn:       func(_ context.Context) (int64, error) { return 0, nil },
	}
}

type swapRepoStub struct {
	createFn        func(context.Context, *models.Swap) error
	getByIDFn       func(context.Context, uint) (*models.Swap, error)
	listForUserFn   func(context.Context, uint, repository.SwapRole, int, int) ([]models.Swap, error)
	updateStatusFn  func(context.Context, uint, string) error
	completeFn      func(context.Context, uint) (*models.Swap, error)
	countByStatusFn func(context.Context, string) (int64, error)
}

func (s *swapRepoStub) Create(ctx context.Context, swap *models.Swap) error {
	return s.createFn(ctx, swap)
}
func (s *swapRepoStub) GetByID(ctx context.Context, id uint) (*models.Swap, error) {
	return s.getByIDFn(ctx, id)
}
func (s *swapRepoStub) ListForUser(ctx context.Context, userID uint, role repository.SwapRole, limit, offset int) ([]models.Swap, error) {
	return s.listForUserFn(ctx, userID, role, limit, offset)
}
func (s *swapRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *swapRepoStub) Complete(ctx context.Context, swapID uint) (*models.Swap, error) {
	return s.completeFn(ctx, swapID)
}
func (s *swapRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.countByStatusFn(ctx, status)
}

func noopSwapRepo() *swapRepoStub {
	return &swapRepoStub{
		createFn: func(_ context.Context, _ *models.Swap) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Swap, error) {
			return &models.Swap{ID: id, Status: models.SwapStatusPending}, nil
		},
		listForUserFn: func(_ context.Context, _ uint, _ repository.SwapRole, _, _ int) ([]models.Swap, error) {
			return nil, nil
		},
		updateStatusFn: func(_ context.Context, _ uint, _ string) error { return nil },
		completeFn: func(_ context.Context, id uint) (*models.Swap, error) {
			return &models.Swap{ID: id, Status: models.SwapStatusCompleted}, nil
		},
		countByStatusFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByExternalIDFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	countFn           func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.getByExternalIDFn(ctx, externalID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Status: models.UserStatusActive, Role: models.UserRoleUser}, nil
		},
		getByExternalIDFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateFn:          func(_ context.Context, _ *models.User) error { return nil },
		listFn:            func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:           func(_ context.Context) (int64, error) { return 0, nil },
	}
}

type tokenRepoStub struct {
	listForUserFn  func(context.Context, uint) ([]models.ClosetToken, error)
	countForUserFn func(context.Context, uint) (int64, error)
}

func (s *tokenRepoStub) ListForUser(ctx context.Context, userID uint) ([]models.ClosetToken, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *tokenRepoStub) CountForUser(ctx context.Context, userID uint) (int64, error) {
	return s.countForUserFn(ctx, userID)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		listForUserFn:  func(_ context.Context, _ uint) ([]models.ClosetToken, error) { return nil, nil },
		countForUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

type reportRepoStub struct {
	createFn       func(context.Context, *models.Report) (int, error)
	getByIDFn      func(context.Context, uint) (*models.Report, error)
	listFn         func(context.Context, string, int, int) ([]models.Report, error)
	updateStatusFn func(context.Context, uint, string) error
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) (int, error) {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, _ *models.Report) (int, error) { return 1, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Report, error) {
			return &models.Report{ID: id, Status: models.ReportStatusPending}, nil
		},
		listFn:         func(_ context.Context, _ string, _, _ int) ([]models.Report, error) { return nil, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

type likeRepoStub struct {
	toggleFn      func(context.Context, uint, uint) (bool, error)
	listForUserFn func(context.Context, uint, int, int) ([]models.Like, error)
	countFn       func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, itemID uint) (bool, error) {
	return s.toggleFn(ctx, userID, itemID)
}
func (s *likeRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}
func (s *likeRepoStub) Count(ctx context.Context, itemID uint) (int64, error) {
	return s.countFn(ctx, itemID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listForUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.Like, error) { return nil, nil },
		countFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// mediaStub is a stub for the MediaUploader dependency.
type mediaStub struct {
	storeFn func(MediaUpload) (string, error)
}

func (s *mediaStub) Store(in MediaUpload) (string, error) {
	return s.storeFn(in)
}

func noopMedia() *mediaStub {
	return &mediaStub{
		storeFn: func(in MediaUpload) (string, error) {
			return "/media/" + in.Filename, nil
		},
	}
}

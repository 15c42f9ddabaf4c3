package service

import (
	"context"

	"bookshelf/internal/books"
	"bookshelf/internal/models"
)

// Function-field stubs for the repository interfaces. Unset fields panic,
// which makes a test that touches an unexpected method fail loudly.

type userRepoStub struct {
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn     func(ctx context.Context, user *models.User) error
	updateFn     func(ctx context.Context, user *models.User) error
	deleteFn     func(ctx context.Context, id uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type profileRepoStub struct {
	getByUserIDFn    func(ctx context.Context, userID uint) (*models.Profile, error)
	getByUsernameFn  func(ctx context.Context, username string) (*models.Profile, error)
	createFn         func(ctx context.Context, profile *models.Profile) error
	updateFn         func(ctx context.Context, profile *models.Profile) error
	deleteFn         func(ctx context.Context, userID uint) error
	usernameExistsFn func(ctx context.Context, username string, excludeUserID uint) (bool, error)
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) Delete(ctx context.Context, userID uint) error {
	return s.deleteFn(ctx, userID)
}
func (s *profileRepoStub) UsernameExists(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	return s.usernameExistsFn(ctx, username, excludeUserID)
}

type postRepoStub struct {
	createFn       func(ctx context.Context, post *models.Post) error
	getByIDFn      func(ctx context.Context, id uint) (*models.Post, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	listByUserFn   func(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	countFn        func(ctx context.Context) (int64, error)
	countByUserFn  func(ctx context.Context, userID uint) (int64, error)
	updateFn       func(ctx context.Context, post *models.Post) error
	deleteFn       func(ctx context.Context, id uint) error
	deleteByUserFn func(ctx context.Context, userID uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) DeleteByUser(ctx context.Context, userID uint) error {
	return s.deleteByUserFn(ctx, userID)
}

type commentRepoStub struct {
	createFn            func(ctx context.Context, comment *models.Comment) error
	getByIDFn           func(ctx context.Context, id uint) (*models.Comment, error)
	listByPostFn        func(ctx context.Context, postID uint) ([]*models.Comment, error)
	deleteFn            func(ctx context.Context, id uint) error
	deleteByUserFn      func(ctx context.Context, userID uint) error
	deleteByPostOwnerFn func(ctx context.Context, ownerID uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) DeleteByUser(ctx context.Context, userID uint) error {
	return s.deleteByUserFn(ctx, userID)
}
func (s *commentRepoStub) DeleteByPostOwner(ctx context.Context, ownerID uint) error {
	return s.deleteByPostOwnerFn(ctx, ownerID)
}

type catalogStub struct {
	lookupISBNFn func(ctx context.Context, isbn string) (*books.Book, error)
}

func (s *catalogStub) LookupISBN(ctx context.Context, isbn string) (*books.Book, error) {
	return s.lookupISBNFn(ctx, isbn)
}

// appErrCode extracts the AppError code, or "" for non-app errors.
func appErrCode(err error) string {
	if appErr, ok := err.(*models.AppError); ok {
		return appErr.Code
	}
	return ""
}

package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(Book{ID: 1, Title: "Emma"}, nil)

		b, err := service.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Emma", b.Title)
	})

	t.Run("not found is descriptive", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(2)).Return(Book{}, ErrNotFound)

		_, err := service.Get(ctx, 2)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "2", nf.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), `"2"`)
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Book{}, boom)

		_, err := service.Get(ctx, 3)
		assert.ErrorIs(t, err, boom)
		var nf *NotFoundError
		assert.False(t, errors.As(err, &nf))
	})
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	f := Fields{Title: "Emma", Author: "Jane Austen", Year: "1815"}

	t.Run("ok", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, f).Return(Book{ID: 9, Title: "Emma"}, nil)

		res, err := service.Create(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, ResultOK, res.Kind)
		assert.Equal(t, int64(9), res.Book.ID)
	})

	t.Run("invalid returns draft without id", func(t *testing.T) {
		bad := Fields{Author: "Jane Austen"}
		verr := &ValidationError{Errors: []FieldError{{Field: "title", Message: "missing"}}}
		mockRepo.EXPECT().Create(ctx, bad).Return(Book{}, verr)

		res, err := service.Create(ctx, bad)
		require.NoError(t, err)
		assert.Equal(t, ResultInvalid, res.Kind)
		assert.Nil(t, res.Draft.ID)
		assert.Equal(t, bad, res.Draft.Fields)
		assert.Equal(t, verr.Errors, res.Errors)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, f).Return(Book{}, context.Canceled)

		_, err := service.Create(ctx, f)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	f := Fields{Title: "Persuasion", Author: "Jane Austen"}

	t.Run("ok", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().GetByID(ctx, int64(4)).Return(Book{ID: 4}, nil),
			mockRepo.EXPECT().Update(ctx, int64(4), f).Return(Book{ID: 4, Title: "Persuasion"}, nil),
		)

		res, err := service.Update(ctx, 4, f)
		require.NoError(t, err)
		assert.Equal(t, ResultOK, res.Kind)
		assert.Equal(t, "Persuasion", res.Book.Title)
	})

	t.Run("unknown id never writes", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(5)).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, 5, f)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "5", nf.ID)
	})

	t.Run("invalid keeps the id", func(t *testing.T) {
		verr := &ValidationError{Errors: []FieldError{{Field: "author", Message: "missing"}}}
		mockRepo.EXPECT().GetByID(ctx, int64(6)).Return(Book{ID: 6}, nil)
		mockRepo.EXPECT().Update(ctx, int64(6), f).Return(Book{}, verr)

		res, err := service.Update(ctx, 6, f)
		require.NoError(t, err)
		assert.Equal(t, ResultInvalid, res.Kind)
		require.NotNil(t, res.Draft.ID)
		assert.Equal(t, int64(6), *res.Draft.ID)
		assert.Equal(t, verr.Errors, res.Errors)
	})

	t.Run("deleted after lookup", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(8)).Return(Book{ID: 8}, nil)
		mockRepo.EXPECT().Update(ctx, int64(8), f).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, 8, f)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		mockRepo.EXPECT().Delete(ctx, int64(1)).Return(nil)
		assert.NoError(t, service.Delete(ctx, 1))
	})

	t.Run("not found is bare", func(t *testing.T) {
		mockRepo.EXPECT().Delete(ctx, int64(2)).Return(ErrNotFound)

		err := service.Delete(ctx, 2)
		assert.Equal(t, ErrNotFound, err)
		var nf *NotFoundError
		assert.False(t, errors.As(err, &nf))
	})
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockReader is a mock implementation of the ReadRepository interface.
type MockReader struct {
	calls []string

	GetUserByUserIDFunc         func(ctx context.Context, userID uuid.UUID) (model.User, error)
	GetUserCommentsByUserIDFunc func(ctx context.Context, userID uuid.UUID) ([]model.Comment, error)
	GetCommentByCommentIDFunc   func(ctx context.Context, commentID uuid.UUID) (model.Comment, error)
	GetRepliesByCommentIDFunc   func(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error)
	GetAllUserCommentsFunc      func(ctx context.Context) ([]model.CommentWithAuthor, error)
	GetAllUsersFunc             func(ctx context.Context) ([]model.User, error)
}

func (m *MockReader) GetUserByUserID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	m.calls = append(m.calls, "GetUserByUserID")
	return m.GetUserByUserIDFunc(ctx, userID)
}

func (m *MockReader) GetUserCommentsByUserID(ctx context.Context, userID uuid.UUID) ([]model.Comment, error) {
	m.calls = append(m.calls, "GetUserCommentsByUserID")
	return m.GetUserCommentsByUserIDFunc(ctx, userID)
}

func (m *MockReader) GetCommentByCommentID(ctx context.Context, commentID uuid.UUID) (model.Comment, error) {
	m.calls = append(m.calls, "GetCommentByCommentID")
	return m.GetCommentByCommentIDFunc(ctx, commentID)
}

func (m *MockReader) GetRepliesByCommentID(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error) {
	m.calls = append(m.calls, "GetRepliesByCommentID")
	return m.GetRepliesByCommentIDFunc(ctx, commentID)
}

func (m *MockReader) GetAllUserComments(ctx context.Context) ([]model.CommentWithAuthor, error) {
	m.calls = append(m.calls, "GetAllUserComments")
	return m.GetAllUserCommentsFunc(ctx)
}

func (m *MockReader) GetAllUsers(ctx context.Context) ([]model.User, error) {
	m.calls = append(m.calls, "GetAllUsers")
	return m.GetAllUsersFunc(ctx)
}

// MockWriter is a mock implementation of the WriteRepository interface.
type MockWriter struct {
	AddUserCommentFunc    func(ctx context.Context, args model.AddCommentArgs) (uuid.UUID, error)
	UpdateUserCommentFunc func(ctx context.Context, commentID uuid.UUID, comment string) (uuid.UUID, error)
}

func (m *MockWriter) AddUserComment(ctx context.Context, args model.AddCommentArgs) (uuid.UUID, error) {
	return m.AddUserCommentFunc(ctx, args)
}

func (m *MockWriter) UpdateUserComment(ctx context.Context, commentID uuid.UUID, comment string) (uuid.UUID, error) {
	return m.UpdateUserCommentFunc(ctx, commentID, comment)
}

var (
	userID    = uuid.MustParse("3b3e9e2a-13d5-4a68-b5c5-8e60a5b5d5de")
	commentID = uuid.MustParse("3b3e9e2a-13d5-4a68-b5c5-8e60a5b5d5df")
	dummyTime = time.Now().Truncate(time.Second).UTC()
)

func TestCommentService_GetCommentsByUserID(t *testing.T) {
	dbErr := model.Normalize(errors.New("connection refused"))
	tests := []struct {
		name          string
		reader        *MockReader
		expectedCalls []string
		expectedErr   func(t *testing.T, err error)
		expected      *model.UserComments
	}{
		{
			name: "user with comments",
			reader: &MockReader{
				GetUserByUserIDFunc: func(ctx context.Context, id uuid.UUID) (model.User, error) {
					return model.User{ID: id, Username: "jd"}, nil
				},
				GetUserCommentsByUserIDFunc: func(ctx context.Context, id uuid.UUID) ([]model.Comment, error) {
					return []model.Comment{{ID: commentID, UserID: id, Comment: "hello", Datetime: dummyTime}}, nil
				},
			},
			expectedCalls: []string{"GetUserByUserID", "GetUserCommentsByUserID"},
			expected: &model.UserComments{
				User:     model.User{ID: userID, Username: "jd"},
				Comments: []model.Comment{{ID: commentID, UserID: userID, Comment: "hello", Datetime: dummyTime}},
			},
		},
		{
			name: "unknown user still looks up comments",
			reader: &MockReader{
				GetUserByUserIDFunc: func(ctx context.Context, id uuid.UUID) (model.User, error) {
					return model.User{}, nil
				},
				GetUserCommentsByUserIDFunc: func(ctx context.Context, id uuid.UUID) ([]model.Comment, error) {
					return []model.Comment{}, nil
				},
			},
			expectedCalls: []string{"GetUserByUserID", "GetUserCommentsByUserID"},
			expected:      &model.UserComments{User: model.User{}, Comments: []model.Comment{}},
		},
		{
			name: "user lookup failure stops the composition",
			reader: &MockReader{
				GetUserByUserIDFunc: func(ctx context.Context, id uuid.UUID) (model.User, error) {
					return model.User{}, dbErr
				},
			},
			expectedCalls: []string{"GetUserByUserID"},
			expectedErr: func(t *testing.T, err error) {
				var uniform *model.Error
				require.ErrorAs(t, err, &uniform)
				assert.Same(t, dbErr, uniform)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := NewCommentService(CommentServiceArgs{Reader: test.reader, Writer: &MockWriter{}})
			got, err := svc.GetCommentsByUserID(context.Background(), userID)
			if test.expectedErr != nil {
				test.expectedErr(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, test.expected, got)
			}
			require.Equal(t, test.expectedCalls, test.reader.calls)
		})
	}
}

func TestCommentService_AddUserComment(t *testing.T) {
	parentID := uuid.MustParse("3b3e9e2a-13d5-4a68-b5c5-8e60a5b5d5da")
	args := model.AddCommentArgs{UserID: userID, Comment: "hello", ParentID: &parentID}
	reader := &MockReader{
		GetCommentByCommentIDFunc: func(ctx context.Context, id uuid.UUID) (model.Comment, error) {
			require.Equal(t, commentID, id)
			return model.Comment{ID: id, UserID: userID, Comment: "hello", ParentID: &parentID, Datetime: dummyTime}, nil
		},
	}
	writer := &MockWriter{
		AddUserCommentFunc: func(ctx context.Context, got model.AddCommentArgs) (uuid.UUID, error) {
			require.Equal(t, args, got)
			return commentID, nil
		},
	}

	svc := NewCommentService(CommentServiceArgs{Reader: reader, Writer: writer})
	got, err := svc.AddUserComment(context.Background(), args)
	require.NoError(t, err)
	require.Equal(t, commentID, got.ID)
	require.Equal(t, "hello", got.Comment)
	require.True(t, got.IsReply())
	require.Equal(t, dummyTime, got.Datetime)
}

func TestCommentService_AddUserComment_WriteFailure(t *testing.T) {
	reader := &MockReader{}
	writer := &MockWriter{
		AddUserCommentFunc: func(ctx context.Context, got model.AddCommentArgs) (uuid.UUID, error) {
			return uuid.Nil, model.Normalize(model.ErrNotPersisted)
		},
	}

	svc := NewCommentService(CommentServiceArgs{Reader: reader, Writer: writer})
	_, err := svc.AddUserComment(context.Background(), model.AddCommentArgs{UserID: userID, Comment: "x"})
	require.ErrorIs(t, err, model.ErrNotPersisted)
	require.Empty(t, reader.calls)
}

func TestCommentService_EditUserComment(t *testing.T) {
	stored := model.Comment{ID: commentID, UserID: userID, Comment: "old", Datetime: dummyTime}
	reader := &MockReader{
		GetCommentByCommentIDFunc: func(ctx context.Context, id uuid.UUID) (model.Comment, error) {
			return stored, nil
		},
	}
	writer := &MockWriter{
		UpdateUserCommentFunc: func(ctx context.Context, id uuid.UUID, comment string) (uuid.UUID, error) {
			require.Equal(t, commentID, id)
			stored.Comment = comment
			return id, nil
		},
	}

	svc := NewCommentService(CommentServiceArgs{Reader: reader, Writer: writer})
	got, err := svc.EditUserComment(context.Background(), model.EditCommentArgs{ID: commentID, UserID: userID, Comment: "new"})
	require.NoError(t, err)
	require.Equal(t, "new", got.Comment)
	require.Equal(t, commentID, got.ID)
	require.Equal(t, []string{"GetCommentByCommentID", "GetCommentByCommentID"}, reader.calls)
}

func TestCommentService_EditUserComment_UnknownComment(t *testing.T) {
	reader := &MockReader{
		GetCommentByCommentIDFunc: func(ctx context.Context, id uuid.UUID) (model.Comment, error) {
			return model.Comment{}, nil
		},
	}
	writer := &MockWriter{
		UpdateUserCommentFunc: func(ctx context.Context, id uuid.UUID, comment string) (uuid.UUID, error) {
			// the zero-value lookup result is forwarded as is
			require.Equal(t, uuid.Nil, id)
			return uuid.Nil, model.Normalize(model.ErrNotFound)
		},
	}

	svc := NewCommentService(CommentServiceArgs{Reader: reader, Writer: writer})
	_, err := svc.EditUserComment(context.Background(), model.EditCommentArgs{ID: commentID, UserID: userID, Comment: "new"})
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Equal(t, []string{"GetCommentByCommentID"}, reader.calls)
}

func TestCommentService_PassThrough(t *testing.T) {
	reader := &MockReader{
		GetAllUsersFunc: func(ctx context.Context) ([]model.User, error) {
			return []model.User{{ID: userID}}, nil
		},
		GetUserByUserIDFunc: func(ctx context.Context, id uuid.UUID) (model.User, error) {
			return model.User{ID: id}, nil
		},
		GetRepliesByCommentIDFunc: func(ctx context.Context, id uuid.UUID) ([]model.Comment, error) {
			return []model.Comment{}, nil
		},
		GetAllUserCommentsFunc: func(ctx context.Context) ([]model.CommentWithAuthor, error) {
			return []model.CommentWithAuthor{{Name: "JaneMDoe"}}, nil
		},
	}
	svc := NewCommentService(CommentServiceArgs{Reader: reader, Writer: &MockWriter{}})
	ctx := context.Background()

	users, err := svc.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	user, err := svc.GetUserByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, user.ID)

	replies, err := svc.GetCommentReplyByCommentID(ctx, commentID)
	require.NoError(t, err)
	require.NotNil(t, replies)
	require.Empty(t, replies)

	all, err := svc.GetAllUserComments(ctx)
	require.NoError(t, err)
	require.Equal(t, "JaneMDoe", all[0].Name)
}

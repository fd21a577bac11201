package notice

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notice not found")

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		QueryAllNotices(ctx context.Context) ([]Notice, error)
		GetNoticeByID(ctx context.Context, id string) (Notice, error)
		UpdateNotice(ctx context.Context, n Notice) (Notice, error)
		DeleteNoticesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nn NewNotice, authorID, authorName string) (Notice, error)
		QueryAll(ctx context.Context) ([]Notice, error)
		GetByID(ctx context.Context, id string) (Notice, error)
		// React toggles userID's reaction with the given emoji.
		React(ctx context.Context, noticeID, userID, emoji string) (Notice, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nn NewNotice, authorID, authorName string) (Notice, error) {
	now := time.Now().UTC()
	return svc.repo.CreateNotice(ctx, Notice{
		Title:      nn.Title,
		Content:    nn.Content,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]Notice, error) {
	return svc.repo.QueryAllNotices(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNoticeByID(ctx, id)
}

func (svc *service) React(ctx context.Context, noticeID, userID, emoji string) (Notice, error) {
	n, err := svc.repo.GetNoticeByID(ctx, noticeID)
	if err != nil {
		return Notice{}, err
	}
	if n.Reactions == nil {
		n.Reactions = make(map[string][]string)
	}

	users := n.Reactions[emoji]
	var toggledOff bool
	for i, id := range users {
		if id == userID {
			n.Reactions[emoji] = append(users[:i], users[i+1:]...)
			toggledOff = true
			break
		}
	}
	if !toggledOff {
		n.Reactions[emoji] = append(users, userID)
	}
	if len(n.Reactions[emoji]) == 0 {
		delete(n.Reactions, emoji)
	}

	n.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNotice(ctx, n)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteNoticesByID(ctx, ids...)
}

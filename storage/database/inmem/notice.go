package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/notice"
)

type noticeRepository struct {
	mu      sync.RWMutex
	notices map[string]notice.Notice
}

var _ notice.Repository = (*noticeRepository)(nil)

func NewNoticeRepository() *noticeRepository {
	return &noticeRepository{notices: make(map[string]notice.Notice)}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	n.ID = uuid.New().String()
	repo.notices[n.ID] = n
	return n, nil
}

func (repo *noticeRepository) QueryAllNotices(ctx context.Context) ([]notice.Notice, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.notices))
	for _, n := range repo.notices {
		notices = append(notices, n)
	}
	sort.Slice(notices, func(i, j int) bool {
		if notices[i].CreatedAt.Equal(notices[j].CreatedAt) {
			return notices[i].ID < notices[j].ID
		}
		return notices[i].CreatedAt.Before(notices[j].CreatedAt)
	})
	return notices, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	n, ok := repo.notices[id]
	if !ok {
		return notice.Notice{}, notice.ErrNotFound
	}
	return n, nil
}

func (repo *noticeRepository) UpdateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.notices[n.ID]; !ok {
		return notice.Notice{}, notice.ErrNotFound
	}
	repo.notices[n.ID] = n
	return n, nil
}

func (repo *noticeRepository) DeleteNoticesByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.notices, id)
	}
	return nil
}

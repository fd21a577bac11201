package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/notice"
)

type noticeRepository struct {
	coll collection
}

var _ notice.Repository = (*noticeRepository)(nil)

func NewNoticeRepository(db *sqlx.DB) *noticeRepository {
	return &noticeRepository{coll: newCollection(db, "notices")}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	n.ID = repo.coll.newID()
	if err := repo.coll.insert(ctx, n.ID, n); err != nil {
		return notice.Notice{}, errors.Wrap(err, "creating notice")
	}
	return n, nil
}

func (repo *noticeRepository) QueryAllNotices(ctx context.Context) ([]notice.Notice, error) {
	docs, err := repo.coll.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	notices := make([]notice.Notice, 0, len(docs))
	for _, data := range docs {
		var n notice.Notice
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, errors.Wrap(err, "unmarshaling notice")
		}
		notices = append(notices, n)
	}
	return notices, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	var n notice.Notice
	if err := repo.coll.get(ctx, id, &n); err != nil {
		if err == sql.ErrNoRows {
			return notice.Notice{}, notice.ErrNotFound
		}
		return notice.Notice{}, errors.Wrap(err, "getting notice")
	}
	return n, nil
}

func (repo *noticeRepository) UpdateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	if err := repo.coll.save(ctx, n.ID, n); err != nil {
		if err == sql.ErrNoRows {
			return notice.Notice{}, notice.ErrNotFound
		}
		return notice.Notice{}, errors.Wrap(err, "updating notice")
	}
	return n, nil
}

func (repo *noticeRepository) DeleteNoticesByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.coll.deleteMany(ctx, ids...), "deleting notices")
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/user"
)

type userRepository struct {
	coll collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{coll: newCollection(db, "users")}
}

// userDoc is the stored form of user.User. The password hash never crosses the
// API boundary (json:"-" on the model) but must survive a round trip here.
type userDoc struct {
	user.User
	PasswordHash []byte `json:"password_hash"`
}

func newUserDoc(usr user.User) userDoc {
	doc := userDoc{User: usr, PasswordHash: usr.PasswordHash}
	doc.User.PasswordHash = nil
	return doc
}

func (doc userDoc) user() user.User {
	usr := doc.User
	usr.PasswordHash = doc.PasswordHash
	return usr
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}
	exists, err := repo.coll.exists(ctx, map[string]interface{}{"email": email}, exclIDs...)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = repo.coll.newID()
	if err := repo.coll.insert(ctx, usr.ID, newUserDoc(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	docs, err := repo.coll.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return unmarshalUsers(docs)
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var doc userDoc
	if err := repo.coll.get(ctx, id, &doc); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return doc.user(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDoc
	if err := repo.coll.findOne(ctx, map[string]interface{}{"email": email}, &doc); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return doc.user(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	query := `SELECT data FROM documents WHERE collection = $1`
	args := []interface{}{repo.coll.name}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		query += ` AND (data->>'name' ILIKE ` + p + ` OR data->>'email' ILIKE ` + p + `)`
	}
	if filter.Role != "" {
		query += ` AND data->>'role' = ` + arg(filter.Role)
	}
	if filter.IsActive != nil {
		query += ` AND (data->>'is_active')::boolean = ` + arg(*filter.IsActive)
	}
	// created_at is stored as RFC 3339 UTC, so string comparison orders correctly
	if !filter.CreatedFrom.IsZero() {
		query += ` AND data->>'created_at' >= ` + arg(filter.CreatedFrom.UTC().Format(time.RFC3339Nano))
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND data->>'created_at' <= ` + arg(filter.CreatedTo.UTC().Format(time.RFC3339Nano))
	}
	query += ` ORDER BY data->>'created_at', id`

	rows, err := repo.coll.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	defer func() { _ = rows.Close() }()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "filtering users")
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return unmarshalUsers(docs)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}
	merged := mergeUser(orig, usr, isActive)
	if err := repo.coll.save(ctx, merged.ID, newUserDoc(merged)); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return merged, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.coll.deleteMany(ctx, ids...), "deleting users")
}

// mergeUser applies the set fields of usr on top of orig.
func mergeUser(orig, usr user.User, isActive *bool) user.User {
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.StudentID != "" {
		orig.StudentID = usr.StudentID
	}
	if usr.TeacherID != "" {
		orig.TeacherID = usr.TeacherID
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		orig.UpdatedAt = usr.UpdatedAt
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	return orig
}

func unmarshalUsers(docs []json.RawMessage) ([]user.User, error) {
	users := make([]user.User, 0, len(docs))
	for _, data := range docs {
		var doc userDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "unmarshaling user")
		}
		users = append(users, doc.user())
	}
	return users, nil
}

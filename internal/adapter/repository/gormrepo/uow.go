package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	docDomain "groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/uow"
)

const defaultBackoff = 25 * time.Millisecond

// GormUoW runs units of work in gorm transactions. Transactions that lose a
// lock race are retried up to retries times; fn must not keep state across
// attempts.
type GormUoW struct {
	db      *gorm.DB
	retries int
	backoff time.Duration
}

func NewGormUoW(db *gorm.DB, retries int) *GormUoW {
	if retries < 0 {
		retries = 0
	}
	return &GormUoW{db: db, retries: retries, backoff: defaultBackoff}
}

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Documents: &DocumentRepository{db: tx},
		Routes:    &RouteRepository{db: tx},
		Members:   &MemberRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.run(ctx, func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinDocumentTx(ctx context.Context, documentID uint64, fn func(r uow.Repos, d *docDomain.Document) error) error {
	return u.run(ctx, func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the document row up-front so step checks and writes are atomic
		d, err := r.Documents.GetByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		return fn(r, d)
	})
}

func (u *GormUoW) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = u.db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= u.retries {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("uow: transient conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * u.backoff):
		}
	}
	return fmt.Errorf("%w: %v", uow.ErrConflict, err)
}

// IsTransient reports lock and serialization failures worth retrying.
func IsTransient(err error) bool {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		// 1213 deadlock, 1205 lock wait timeout
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists events emitted by committed invocations and serves filtered queries.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/xenv"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert stores the events of one invocation in a single transaction.
func (db *EventDB) Insert(ctx context.Context, invocationID ido.Bytes32, height uint32, events []*xenv.Event) error {
	if len(events) == 0 {
		return nil
	}
	return db.execInTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO event(invocationID, eventIndex, height, address, name, account, project, amount, attrs) VALUES(?,?,?,?,?,?,?,?,?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, ev := range events {
			var attrs any
			if len(ev.Attrs) > 0 {
				data, err := json.Marshal(ev.Attrs)
				if err != nil {
					return err
				}
				attrs = string(data)
			}
			var amount any
			if ev.Amount != nil {
				amount = ev.Amount.String()
			}
			if _, err := stmt.ExecContext(ctx,
				invocationID.Bytes(),
				i,
				height,
				ev.Address.Bytes(),
				ev.Name,
				addressOrNil(ev.Account),
				addressOrNil(ev.Project),
				amount,
				attrs,
			); err != nil {
				return err
			}
		}
		metricInsertedEvents().Add(int64(len(events)))
		return nil
	})
}

// Filter returns events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT "+eventColumns+" FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := "SELECT " + eventColumns + " FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND height >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND height <= ? "
		}
	}
	if filter.Address != nil {
		args = append(args, filter.Address.Bytes())
		stmt += " AND address = ? "
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ? "
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if filter.Project != nil {
		args = append(args, filter.Project.Bytes())
		stmt += " AND project = ? "
	}
	if filter.InvocationID != nil {
		args = append(args, filter.InvocationID.Bytes())
		stmt += " AND invocationID = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq          uint64
			invocationID []byte
			index        uint32
			height       uint32
			address      []byte
			name         string
			account      []byte
			project      []byte
			amount       sql.NullString
			attrs        sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&invocationID,
			&index,
			&height,
			&address,
			&name,
			&account,
			&project,
			&amount,
			&attrs,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:          seq,
			InvocationID: ido.BytesToBytes32(invocationID),
			Index:        index,
			Height:       height,
			Address:      ido.BytesToAddress(address),
			Name:         name,
			Account:      nilOrAddress(account),
			Project:      nilOrAddress(project),
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("corrupted amount %q at seq %v", amount.String, seq)
			}
			event.Amount = v
		}
		if attrs.Valid {
			if err := json.Unmarshal([]byte(attrs.String), &event.Attrs); err != nil {
				return nil, errors.Wrapf(err, "corrupted attrs at seq %v", seq)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *EventDB) execInTx(ctx context.Context, cb func(*sql.Tx) error) (err error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := cb(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(err, rbErr.Error())
		}
		return err
	}
	return tx.Commit()
}

func addressOrNil(addr *ido.Address) any {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}

func nilOrAddress(data []byte) *ido.Address {
	if len(data) == 0 {
		return nil
	}
	addr := ido.BytesToAddress(data)
	return &addr
}

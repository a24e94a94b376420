// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	invocationID blob(32) not null,
	eventIndex integer not null,
	height integer not null,
	address blob(20) not null,
	name text not null,
	account blob(20),
	project blob(20),
	amount text,
	attrs text
);

create index if not exists heightIndex on event(height);
create index if not exists addressIndex on event(address);
create index if not exists nameIndex on event(name);
create index if not exists accountIndex on event(account);
create index if not exists projectIndex on event(project);
create unique index if not exists invocationIndex on event(invocationID, eventIndex);
`

const eventColumns = "seq, invocationID, eventIndex, height, address, name, account, project, amount, attrs"

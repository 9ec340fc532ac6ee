package journal

const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	credential TEXT NOT NULL DEFAULT '',
	cash TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	symbol TEXT NOT NULL,
	shares INTEGER NOT NULL CHECK (shares <> 0),
	price TEXT NOT NULL,
	commit_time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_time ON transactions(account_id, commit_time, seq);
CREATE INDEX IF NOT EXISTS idx_transactions_account_symbol ON transactions(account_id, symbol);

CREATE TRIGGER IF NOT EXISTS transactions_no_update
BEFORE UPDATE ON transactions
BEGIN
	SELECT RAISE(ABORT, 'transactions are append-only');
END;

CREATE TRIGGER IF NOT EXISTS transactions_no_delete
BEFORE DELETE ON transactions
BEGIN
	SELECT RAISE(ABORT, 'transactions are append-only');
END;
`

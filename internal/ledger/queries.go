package ledger

const (
	queryCreateUser = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, tier, created_at
	`

	queryGetUserByEmail = `
		SELECT id, email, password_hash, tier, created_at
		FROM users
		WHERE email = $1
	`

	queryGetUserByID = `
		SELECT id, email, password_hash, tier, created_at
		FROM users
		WHERE id = $1
	`

	queryLockUser = `
		SELECT id FROM users WHERE id = $1 FOR UPDATE
	`

	queryCountUsageSince = `
		SELECT COUNT(*) FROM usage_logs
		WHERE user_id = $1 AND created_at >= $2
	`

	queryInsertUsage = `
		INSERT INTO usage_logs (user_id) VALUES ($1)
	`
)

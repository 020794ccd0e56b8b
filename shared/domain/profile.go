package domain

type ProfileId = int64

// Profile is the public identity record, looked up by username for both
// message senders and recipients. LegacyAuthId is an identifier from the
// previous identity system, retained so notification email lookup keeps
// working for accounts that predate the migration.
type Profile struct {
	Id           ProfileId
	Username     string
	Email        Email
	LegacyAuthId *string
}

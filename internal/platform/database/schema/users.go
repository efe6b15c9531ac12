package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table    string
	ID       string
	Email    string
	Login    string
	Name     string
	Birthday string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:    "users",
	ID:       "id",
	Email:    "email",
	Login:    "login",
	Name:     "name",
	Birthday: "birthday",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Email, t.Login, t.Name, t.Birthday}
}

// UserFriendshipTable represents the 'user_friendship' table
type UserFriendshipTable struct {
	Table     string
	UserID    string
	FriendID  string
	Confirmed string
}

// UserFriendship is the schema definition for user_friendship
var UserFriendship = UserFriendshipTable{
	Table:     "user_friendship",
	UserID:    "user_id",
	FriendID:  "friend_id",
	Confirmed: "confirmed",
}

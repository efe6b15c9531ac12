// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user manages Filmorate members and their friend lists.

# Friendship Model

Friendship is directional. When user A adds user B, only A's friend list gains
B; B's list is unchanged until B adds A. The stored edge carries a "confirmed"
flag that is always false because there is no request/accept workflow.

Common friends of A and B are the intersection of A's and B's outgoing lists,
so the result does not depend on argument order.
*/
package user

import (
	"github.com/taibuivan/filmorate/pkg/date"
)

// # Domain Entities

// User is a registered member of the catalogue.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday date.Date `json:"birthday"`

	// Friends holds outgoing friend ids in ascending order. It is read-only
	// through Create and Update; use the friend endpoints to change it.
	Friends []int64 `json:"friends"`
}

// clone returns a deep copy so callers never share the friends slice.
func (user *User) clone() *User {
	copied := *user
	copied.Friends = append([]int64{}, user.Friends...)
	return &copied
}

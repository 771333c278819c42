// Package store holds the session's user list and applies the three store
// actions to it. Reducers are pure; persistence is an explicit step taken by
// Store after a reducer asks for it.
package store

import "github.com/smileynet/roster/internal/user"

// Action is a store mutation. The concrete types are AddUser, RemoveUser
// and EditUser.
type Action interface {
	actionName() string
}

// AddUser appends Record to the end of the list.
type AddUser struct {
	Record user.Record
}

// RemoveUser removes every record whose email equals Email.
type RemoveUser struct {
	Email string
}

// EditUser replaces the first record whose email equals Record.Email.
type EditUser struct {
	Record user.Record
}

func (AddUser) actionName() string    { return "addUser" }
func (RemoveUser) actionName() string { return "removeUser" }
func (EditUser) actionName() string   { return "editUser" }

// Verify at compile time that the action types implement Action.
var (
	_ Action = AddUser{}
	_ Action = RemoveUser{}
	_ Action = EditUser{}
)

// Reduce applies a to users and returns the next list plus whether the
// snapshot must be rewritten. users is never modified.
//
// AddUser and RemoveUser always persist, even when RemoveUser matched
// nothing. EditUser persists only when a record was replaced.
func Reduce(users []user.Record, a Action) ([]user.Record, bool) {
	switch a := a.(type) {
	case AddUser:
		return Add(users, a.Record), true
	case RemoveUser:
		return Remove(users, a.Email), true
	case EditUser:
		return Edit(users, a.Record)
	default:
		return users, false
	}
}

// Add returns a copy of users with r appended. Duplicate emails are not
// rejected here.
func Add(users []user.Record, r user.Record) []user.Record {
	next := make([]user.Record, 0, len(users)+1)
	next = append(next, users...)
	return append(next, r)
}

// Remove returns a copy of users without any record whose email is email.
func Remove(users []user.Record, email string) []user.Record {
	next := make([]user.Record, 0, len(users))
	for _, u := range users {
		if u.Email != email {
			next = append(next, u)
		}
	}
	return next
}

// Edit returns a copy of users with the first record sharing r's email
// replaced by r, keeping its position. When no record matches, users is
// returned as-is and ok is false.
func Edit(users []user.Record, r user.Record) (next []user.Record, ok bool) {
	idx := IndexOf(users, r.Email)
	if idx < 0 {
		return users, false
	}
	next = make([]user.Record, len(users))
	copy(next, users)
	next[idx] = r
	return next, true
}

// IndexOf returns the position of the first record with the given email,
// or -1.
func IndexOf(users []user.Record, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

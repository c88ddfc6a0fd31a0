// Package policy decides who may change what. Every function is pure; the
// caller loads the records and turns a denial into an error with Err.
package policy

import (
	"campusnest/errors"
	"campusnest/models"
	"campusnest/types"
)

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Err returns nil for an allowed decision and a FORBIDDEN AppError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return errors.Forbidden(d.Reason)
}

const reasonAnonymous = "Authentication required."

func CanModifyReview(actor *types.Actor, review *models.Review) Decision {
	if !actor.IsAuthenticated() {
		return Deny(reasonAnonymous)
	}
	if review == nil || review.UserID != actor.UserID {
		return Deny("You can only modify your own reviews.")
	}
	return Allow()
}

func CanDeleteBookmark(actor *types.Actor, bookmark *models.Bookmark) Decision {
	if !actor.IsAuthenticated() {
		return Deny(reasonAnonymous)
	}
	if bookmark == nil || bookmark.UserID != actor.UserID {
		return Deny("You can only delete your own bookmarks.")
	}
	return Allow()
}

// CanModifyMedia checks ownership of the review the media hangs off.
func CanModifyMedia(actor *types.Actor, review *models.Review) Decision {
	if !actor.IsAuthenticated() {
		return Deny(reasonAnonymous)
	}
	if review == nil || review.UserID != actor.UserID {
		return Deny("You can only modify media on your own reviews.")
	}
	return Allow()
}

func CanListBookmarks(actor *types.Actor, ownerID uint) Decision {
	if !actor.IsAuthenticated() {
		return Deny(reasonAnonymous)
	}
	if actor.UserID != ownerID {
		return Deny("You can only view your own bookmarks.")
	}
	return Allow()
}

func CanModerate(actor *types.Actor) Decision {
	if !actor.IsAuthenticated() || !actor.IsAdmin {
		return Deny("Only administrators can moderate reports.")
	}
	return Allow()
}

func CanManageCatalog(actor *types.Actor) Decision {
	if !actor.IsAuthenticated() || !actor.IsAdmin {
		return Deny("Only administrators can manage campuses and housings.")
	}
	return Allow()
}

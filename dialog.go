package xclient

import (
	"context"
	"sync"
)

// DialogState is the confirm dialog state.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
)

func (s DialogState) String() string {
	if s == DialogOpen {
		return "open"
	}
	return "closed"
}

// ConfirmDialog guards a destructive action behind an explicit confirmation.
//
//	Closed --Request--> Open
//	Open   --Cancel---> Closed
//	Open   --Confirm, action ok--> Closed
//	Open   --Confirm, action fails--> Open
//
// Confirm and Cancel while Closed do nothing.
type ConfirmDialog struct {
	action func(context.Context) error

	mu    sync.Mutex
	state DialogState
	busy  bool
}

// NewConfirmDialog returns a closed dialog that runs action on Confirm.
func NewConfirmDialog(action func(context.Context) error) *ConfirmDialog {
	return &ConfirmDialog{action: action}
}

// NewUnfollowDialog returns a closed dialog that unfollows target.
func NewUnfollowDialog(rel *Relationships, target *User) *ConfirmDialog {
	return NewConfirmDialog(func(ctx context.Context) error {
		return rel.Unfollow(ctx, target)
	})
}

// NewLogoutDialog returns a closed dialog that logs the session out.
func NewLogoutDialog(s *Session) *ConfirmDialog {
	return NewConfirmDialog(s.Logout)
}

// State returns the current state.
func (d *ConfirmDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Request opens the dialog.
func (d *ConfirmDialog) Request() {
	d.mu.Lock()
	d.state = DialogOpen
	d.mu.Unlock()
}

// Cancel closes the dialog without running the action.
func (d *ConfirmDialog) Cancel() {
	d.mu.Lock()
	if !d.busy {
		d.state = DialogClosed
	}
	d.mu.Unlock()
}

// Confirm runs the action. It reports whether the action was attempted;
// a confirm on a closed dialog, or one racing an in-flight confirm, is
// ignored.
func (d *ConfirmDialog) Confirm(ctx context.Context) (bool, error) {
	d.mu.Lock()
	if d.state != DialogOpen || d.busy {
		d.mu.Unlock()
		return false, nil
	}
	d.busy = true
	d.mu.Unlock()

	err := d.action(ctx)

	d.mu.Lock()
	d.busy = false
	if err == nil {
		d.state = DialogClosed
	}
	d.mu.Unlock()
	return true, err
}

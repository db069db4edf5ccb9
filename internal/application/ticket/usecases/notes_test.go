package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

func (f *fixture) notes() *NoteUseCases {
	return NewNoteUseCases(f.store.Tickets(), f.store.Notes(), f.store.Users(), f.policy, f.renderer, logger.NewNopLogger())
}

func TestNoteUseCases_CreateAndList(t *testing.T) {
	f := newFixture(t)
	uc := f.notes()
	ctx := context.Background()

	created, err := uc.Create(ctx, actorOf(f.agent), f.ticket.ID(), "I have received your ticket.")
	require.NoError(t, err)
	assert.Equal(t, "John Agent", created.AuthorName)
	assert.Equal(t, "agent", created.AuthorRole)
	assert.Contains(t, created.NoteHTML, "<p>I have received your ticket.</p>")

	_, err = uc.Create(ctx, actorOf(f.owner), f.ticket.ID(), "Thanks!")
	require.NoError(t, err)

	notes, err := uc.List(ctx, actorOf(f.owner), f.ticket.ID())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, created.ID, notes[0].ID)

	_, err = uc.Create(ctx, actorOf(f.owner), f.ticket.ID(), "   ")
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Create(ctx, actorOf(f.stranger), f.ticket.ID(), "Hi")
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.List(ctx, actorOf(f.stranger), f.ticket.ID())
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.List(ctx, actorOf(f.agent), 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestNoteUseCases_Get(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddTicket("Other", f.stranger.ID(), f.dept.ID())
	n := f.store.AddNote(f.ticket.ID(), f.agent.ID(), "On it")
	uc := f.notes()
	ctx := context.Background()

	got, err := uc.Get(ctx, actorOf(f.owner), f.ticket.ID(), n.ID())
	require.NoError(t, err)
	assert.Equal(t, "On it", got.Note)

	_, err = uc.Get(ctx, actorOf(f.agent), other.ID(), n.ID())
	assert.True(t, errors.IsNotFoundError(err), "note of another ticket")

	_, err = uc.Get(ctx, actorOf(f.agent), f.ticket.ID(), 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestNoteUseCases_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	n := f.store.AddNote(f.ticket.ID(), f.agent.ID(), "Looking into it")
	uc := f.notes()
	ctx := context.Background()

	_, err := uc.Update(ctx, actorOf(f.owner), f.ticket.ID(), n.ID(), "hijacked")
	assert.True(t, errors.IsForbiddenError(err), "owners cannot edit staff notes")

	updated, err := uc.Update(ctx, actorOf(f.agent), f.ticket.ID(), n.ID(), "Fixed in 2.1")
	require.NoError(t, err)
	assert.Equal(t, "Fixed in 2.1", updated.Note)

	updated, err = uc.Update(ctx, actorOf(f.admin), f.ticket.ID(), n.ID(), "Fixed in 2.2")
	require.NoError(t, err)
	assert.Equal(t, "Fixed in 2.2", updated.Note)

	_, err = uc.Update(ctx, actorOf(f.agent), f.ticket.ID(), n.ID(), "")
	assert.True(t, errors.IsValidationError(err))

	err = uc.Delete(ctx, actorOf(f.owner), f.ticket.ID(), n.ID())
	assert.True(t, errors.IsForbiddenError(err))

	require.NoError(t, uc.Delete(ctx, actorOf(f.agent), f.ticket.ID(), n.ID()))

	err = uc.Delete(ctx, actorOf(f.agent), f.ticket.ID(), n.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestNoteUseCases_ListByUser(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddTicket("Other", f.stranger.ID(), f.dept.ID())
	f.store.AddNote(f.ticket.ID(), f.agent.ID(), "first")
	f.store.AddNote(other.ID(), f.agent.ID(), "second")
	f.store.AddNote(other.ID(), f.stranger.ID(), "reply")
	uc := f.notes()
	ctx := context.Background()

	notes, err := uc.ListByUser(ctx, actorOf(f.admin), f.agent.ID())
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	_, err = uc.ListByUser(ctx, actorOf(f.owner), f.owner.ID())
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.ListByUser(ctx, actorOf(f.agent), 999)
	assert.True(t, errors.IsNotFoundError(err))
}

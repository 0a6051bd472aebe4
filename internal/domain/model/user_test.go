package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActorCanActOn(t *testing.T) {
	owner := Actor{UserID: 7}
	require.True(t, owner.CanActOn(7))
	require.False(t, owner.CanActOn(8))

	staff := Actor{UserID: 1, IsStaff: true}
	require.True(t, staff.CanActOn(7))
	require.True(t, staff.CanActOn(1))
}

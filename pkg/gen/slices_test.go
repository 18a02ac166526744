package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteFromSliceUnordered(t *testing.T) {
	a := []int{1, 2, 3, 4}
	a = DeleteFromSliceUnordered(a, 1)
	require.ElementsMatch(t, []int{1, 3, 4}, a)

	a = []int{7}
	a = DeleteFromSliceUnordered(a, 0)
	require.Empty(t, a)
}

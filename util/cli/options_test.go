package cli_test

import (
	"flag"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/util/cli"
)

// Flags register on the process-wide flag set, so one test covers
// both registration calls.
func TestFlagRegistration(t *testing.T) {
	cli.Init()
	assert.NotNil(t, flag.Lookup("workers"))
	assert.NotNil(t, flag.Lookup("help"))

	// -limit exists only for apps that opt in, and its default is
	// the use-config sentinel.
	assert.Nil(t, flag.Lookup("limit"))
	cli.InitMaxKeys()
	limitFlag := flag.Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, strconv.Itoa(constants.UseConfigMaxKeys), limitFlag.DefValue)
}

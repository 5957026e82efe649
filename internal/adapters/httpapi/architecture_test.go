package httpapi

import (
	"testing"

	"holma/testutil"
)

// TestHandlersGoThroughCore keeps the adapter on the service facade.
func TestHandlersGoThroughCore(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "http handlers must use core.Service")
}

// Package testing provides a harness for testing addon scripts against a
// headless frame host.
//
// # Quick Start
//
// Create a tester, run a script, and make assertions:
//
//	func TestMyAddon(t *testing.T) {
//	    tester := fhtest.NewTesterWithT(t)
//	    tester.MustRun(`
//	        local b = CreateFrame("Button", "MyAddonButton", UIParent)
//	        b:SetSize(100, 20)
//	        b:SetPoint("TOPLEFT")
//	        b:EnableMouse(true)
//	        b:SetScript("OnClick", function(self) self:SetText("Clicked") end)
//	    `)
//
//	    // Simulate a click
//	    tester.Tap(fhtest.ByName("MyAddonButton"))
//
//	    // Assert state
//	    if !tester.Find(fhtest.ByText("Clicked")).Exists() {
//	        t.Error("expected 'Clicked' text")
//	    }
//	}
//
// # Golden Files
//
// Compare the frame tree dump with a golden file:
//
//	tester.MatchesFile(t, "testdata/my_addon.golden", engine.DumpOptions{})
//
// Update golden files with:
//
//	FRAMEHOST_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Timers
//
// The tester's clock only moves when told to:
//
//	tester.Pump(100 * time.Millisecond)
//	tester.PumpUntilIdle(100*time.Millisecond, 5*time.Second)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fhtest "github.com/go-drift/framehost/pkg/testing"
package testing

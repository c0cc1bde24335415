package txingest

import "github.com/charmbracelet/log"

// Logger receives the diagnostics of the package. Replace it to change
// the destination or level.
var Logger = log.Default()

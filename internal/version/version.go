package version

import "fmt"

// Build metadata. Version is bumped on release; Commit and BuildTime are set
// with -ldflags "-X lmsops/internal/version.Commit=...".
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildTime = ""
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}

func (i Info) String() string {
	s := "lmsctl " + i.Version
	if i.Commit != "" {
		s += fmt.Sprintf(" (%s)", i.Commit)
	}
	if i.BuildTime != "" {
		s += " built " + i.BuildTime
	}
	return s
}

// Package buildinfo carries version metadata stamped at link time, e.g.
//
//	go build -ldflags "-X coldsim/internal/buildinfo.Version=v1.2.0"
//
// The health endpoint reports it so a running simulator identifies itself.
package buildinfo

var (
    Version = "dev"
    Commit  = ""
    BuiltAt = ""
)

// Info returns the stamped values as a flat map for JSON responses.
func Info() map[string]string {
    return map[string]string{
        "version": Version,
        "commit":  Commit,
        "builtAt": BuiltAt,
    }
}

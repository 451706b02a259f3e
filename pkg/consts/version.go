package consts

// inject version by '-X' flag
// go build -ldflags "-X github.com/go-yadex/yadex/pkg/consts.Version=${VERSION}"
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

package api

import (
	"fmt"

	"github.com/gsy-tools/gsy/pkg/global"
)

const UserAgentHeader = "User-Agent"

func UserAgent() string {
	return fmt.Sprintf("gsy/%s", global.Version)
}

package appwatch

import (
	"regexp"
	"strings"
)

var kvRegex = regexp.MustCompile(`"([^"]+)"\s*=\s*"([^"]*)"`)

// parseLsappinfo extracts the application identity from `lsappinfo info`
// output, which is a sequence of "key"="value" lines.
func parseLsappinfo(output string) AppInfo {
	fields := make(map[string]string)
	for _, m := range kvRegex.FindAllStringSubmatch(output, -1) {
		fields[m[1]] = m[2]
	}
	return AppInfo{
		Name:     fields["LSDisplayName"],
		BundleID: fields["CFBundleIdentifier"],
		Path:     strings.TrimSuffix(fields["LSBundlePath"], "/"),
	}
}

// parseFrontASN extracts the application serial number from
// `lsappinfo front` output.
func parseFrontASN(output string) string {
	return strings.TrimSpace(output)
}

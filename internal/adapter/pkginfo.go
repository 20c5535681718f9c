package adapter

import (
	"regexp"
	"strings"
)

var (
	// nodeModulesPattern matches "node_modules/<name>" where scoped packages
	// (leading @) take two path segments.
	nodeModulesPattern = regexp.MustCompile(`node_modules/(@[^/]+/[^/]+|[^/]+)`)

	// pnpmStorePattern matches the flattened store entry
	// "node_modules/.pnpm/<name>@<version>", scoped names written as "@scope+name".
	// The version stops at the first "_" that starts the peer-dependency suffix.
	pnpmStorePattern = regexp.MustCompile(`node_modules/\.pnpm/((?:@[^+]+\+[^@]+)|(?:[^@]+))@([^/_]+)`)
)

// packageInfo is what can be learned about a module from its path.
type packageInfo struct {
	Name     string
	Version  string
	IsVendor bool
}

// normalizePath converts Windows separators so one set of patterns applies.
func normalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// nodeModulesPackage extracts the package name from a plain node_modules
// path. No version can be derived from such paths.
func nodeModulesPackage(modulePath string) packageInfo {
	p := normalizePath(modulePath)
	if !strings.Contains(p, "node_modules") {
		return packageInfo{}
	}

	info := packageInfo{IsVendor: true}
	if m := nodeModulesPattern.FindStringSubmatch(p); m != nil {
		info.Name = m[1]
	}
	return info
}

// storePackage extracts name and version from a pnpm flattened-store path,
// falling back to nodeModulesPackage when the store pattern does not match.
// Other package managers' store layouts are not recognized.
func storePackage(modulePath string) packageInfo {
	p := normalizePath(modulePath)
	if !strings.Contains(p, "node_modules") {
		return packageInfo{}
	}

	if m := pnpmStorePattern.FindStringSubmatch(p); m != nil {
		version, _, _ := strings.Cut(m[2], "_")
		return packageInfo{
			Name:     strings.ReplaceAll(m[1], "+", "/"),
			Version:  version,
			IsVendor: true,
		}
	}

	return nodeModulesPackage(p)
}

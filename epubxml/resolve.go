package epubxml

import "path"

// resolveHref resolves href against the directory containing basePath,
// using POSIX path rules ("/" separators, ".." collapses). basePath is a
// file path (e.g. the OPF or NCX path); href is taken relative to its
// parent directory, matching how EPUB resolves every intra-archive
// reference.
func resolveHref(basePath, href string) string {
	if href == "" {
		return href
	}
	dir := path.Dir(basePath)
	if dir == "." {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}

// splitFragment splits "path#fragment" into its two parts; fragment is ""
// if there is none.
func splitFragment(src string) (p, frag string) {
	for i := 0; i < len(src); i++ {
		if src[i] == '#' {
			return src[:i], src[i+1:]
		}
	}
	return src, ""
}

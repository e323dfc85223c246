// Package theme turns the persisted theme and colorscheme preferences into
// the single data-theme attribute the front end is styled from, and provides
// the colour palettes behind each resolved name.
package theme

// Package audio plays localdrop's two sound effects. Sounds are decoded
// with beep, cached in memory and only played when the persisted
// isSfxEnabled preference is "true".
package audio

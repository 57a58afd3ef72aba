// Package filter blurs coverage masks for drop shadows.
//
// Shadows are drawn by rasterizing a shape into an [image.Alpha] mask,
// blurring it with a separable Gaussian and compositing a translucent
// color through the result. Masks carry their own bounds, so callers
// size them with [Margin] to leave room for the blur to spread.
package filter

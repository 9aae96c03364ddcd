// Package vision obtains natural-language descriptions of video frames from
// an OpenAI-compatible chat completion API with image input.
//
// The client sends each frame as a base64 data URL alongside a fixed prompt
// asking the model to describe visible UI interactions. Transient failures
// (timeouts, 429s, 5xx) are retried with exponential backoff honoring
// Retry-After. The caller decides how to degrade when a frame cannot be
// described; this package only reports the failure.
package vision

// Package backend talks to the subtitle extraction service over HTTP.
//
// The service answers the same question in several shapes: a submission may
// return a task ID or the subtitles themselves, and the text may sit under
// "subtitles" or "srt_content", at the top level or nested under "result".
// The client collapses all of that into SubmitResponse and JobStatus so the
// poller and renderer never inspect raw JSON. Every non-2xx reply becomes an
// error tagged with services.ErrTransport carrying the service's own message.
package backend

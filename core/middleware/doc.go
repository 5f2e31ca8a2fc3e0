// Package middleware groups the Fiber handlers that run in front of the
// scheduler's routes.
//
//   - auth: rejects requests whose X-API-Key header does not match the
//     configured key. An empty key leaves the API open.
//   - rayid: tags each request with an X-Ray-ID, reusing the caller's value
//     when present, so handler logs can be joined with the response.
//
// Ray ids are attached before auth so rejected calls are traceable too.
package middleware

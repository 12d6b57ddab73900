// Package http provides the chi router, middleware and JSON handlers of the
// console API.
//
// Public endpoints:
//   - POST /sessions: signs in with {"email","password"}. Responds with
//     {"token","expires_at","user"}; the token is also set as the
//     `session_token` cookie and the `X-Session-Token` header.
//   - POST /visitor-passes, POST /homeowner-passes: render QR passes. Send
//     `Accept: image/png` to receive the image itself.
//   - GET /healthz, GET /metrics.
//
// Every other endpoint needs a session (cookie or `Authorization: Bearer`):
//   - /sessions/current (GET, DELETE), /sessions/refresh (POST),
//     /sessions/{token} (DELETE, admin).
//   - /users and /users/{id}, plus POST /api/deleteUser: admin only.
//   - /vehicles, /vehicles/{id}, /vehicles/{id}/archive, /vehicles/{id}/unarchive.
//   - /vehicle-logs, /vehicle-logs/{id}, /vehicle-logs/{id}/exit, /vehicle-logs/export.
//   - /visitor-logs, /visitor-logs/{id}, /visitor-logs/export.
//   - POST /visitor-passes/scan and /visitor-passes/redeem: guards and admins.
//   - GET /dashboard.
//
// Record timestamps are epoch milliseconds. Lists accept `page` and
// `per_page` and answer with `page`, `per_page`, `total` and `total_pages`.
// Request and response DTOs live alongside their handlers.
package http

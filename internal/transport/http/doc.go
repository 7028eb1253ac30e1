// Package http implements the HTTP handlers for the analytics service.
// Handlers stay thin: they parse and validate the request, call the
// service layer, and render the response, converting service errors to
// RFC 7807 problem documents.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Workbook Source
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
package http

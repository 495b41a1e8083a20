// Package http provides HTTP handlers and middleware for the campus
// scheduler API.
//
// The router exposes the following endpoints:
//   - GET /bookings, POST /bookings, PUT /bookings/{id}, DELETE /bookings/{id},
//     PATCH /bookings/{id}/status: booking lifecycle endpoints exchanging the
//     `bookingDTO` payload defined in booking_handler.go. Proposals and
//     reschedules run the conflict check; a rejected proposal reports the
//     conflicting booking id.
//   - POST /timetable/auto: runs batch slot assignment over current
//     enrollments. The optional body overrides the configured slot catalog
//     for one run.
//   - GET /rooms, POST /rooms, DELETE /rooms/{id}: room catalog endpoints.
//   - GET /lecturers, POST /lecturers, GET /enrollments, POST /enrollments:
//     directory endpoints feeding batch assignment.
//   - POST /exams, GET /exams, GET /exams/{id}, PUT /exams/{id},
//     DELETE /exams/{id}, GET /students/{id}/exams: exam scheduling
//     endpoints.
//   - GET /reports/utilization: room utilization summary across the catalog
//     and current bookings.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http

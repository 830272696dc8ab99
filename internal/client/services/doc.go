// Package services contains the application services of the recognize
// client. They sit between the CLI and the backend client:
//
//   - SessionController caches the polled session, advances its phase and
//     runs the background watcher.
//   - IdentityService keeps the participant identity scoped per session.
//   - AdminService and ParticipantService implement the admin panel and the
//     participant vote page on top of client.Client.
package services

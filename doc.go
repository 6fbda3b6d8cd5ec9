// Package backend provides the socialsimple API server.
//
// Binaries live under cmd/ (server, migrate, seed, promote-admin, cli). The
// packages they share are under internal/:
//
//   - internal/handlers: HTTP handlers for auth, users, posts and the feed
//   - internal/router: route table and middleware chain
//   - internal/auth: password hashing and JWT issuance
//   - internal/models: GORM models
//   - internal/repository: database access for users and posts
//   - internal/storage: media CDN uploads (S3 or Cloudinary)
//   - internal/email: password reset and verification mail
//   - internal/kernel: dependency container shared by the handlers
//
// See the individual package documentation for details.
package backend

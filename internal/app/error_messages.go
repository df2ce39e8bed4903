// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// ledger-sync server handlers and the device client.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies. The device client matches on the same strings to map
// a response back to a service error, so the wording is part of the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied username/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid username/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler requires the caller's
	// user ID but none is present in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgVersionIsNotSpecified is returned by GET /api/version when the
	// server was started without a version.
	MsgVersionIsNotSpecified = "version is not specified"

	// MsgRegistrationFailed is returned when registration fails for a reason
	// other than a taken username.
	MsgRegistrationFailed = "registration failed"

	// MsgLoginFailed is returned when login fails for a reason other than
	// wrong credentials.
	MsgLoginFailed = "login failed"

	// MsgUsernameAlreadyExists is returned when a registration attempt is
	// rejected because the requested username is already in use.
	MsgUsernameAlreadyExists = "username already exists"

	// MsgSyncFailed is returned when a sync round could not be processed at
	// all. Per-entry failures never produce it; they are reported inside the
	// response results.
	MsgSyncFailed = "sync failed"
)

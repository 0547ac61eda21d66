// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys and voter identity extraction.

# Admin Keys

Admin keys use HMAC-SHA256 over the election name:

	adminKey := auth.GenerateAdminKey(cfg.ElectionName, cfg.AdminKeySalt)
	err := auth.ValidateAdminKey(cfg.ElectionName, adminKey, cfg.AdminKeySalt)

The key is URL-safe base64 encoded without padding. It is deterministic, so it
never needs to be stored. Print it with the -admin-key flag.

# Voter Identity

Voters authenticate with an external identity provider. When a JWT secret is
configured, the voter id is the subject of the provider's HS256 token:

	voterID, err := auth.VoterIDFromBearer(r.Header.Get("Authorization"), secret)

No other authentication happens here; the subject is trusted as a stable,
unique identifier.

# IP Hashing

For privacy-preserving vote logging:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth

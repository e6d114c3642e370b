// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and privacy helpers.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded. A token is issued when a voter,
candidate or admin finishes logging in and is sent back in the
X-Session-Token header. Tokens identify the current voter and their
pending ballot; they are not used to authorize admin routes.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# Log Privacy

Client addresses and login identifiers never appear in logs verbatim:

	hash := auth.HashIP(ipAddress, salt)   // first 8 bytes of HMAC-SHA256, hex
	masked := auth.MaskIdentifier("2021-MECH-042") // "*********-042"
*/
package auth

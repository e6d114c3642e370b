// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - UpdateElectionRequest: name, academic_year
  - SetPhaseRequest: phase
  - AddPostRequest: name, seats
  - ReviewCandidateRequest: reason (required when rejecting)
  - NominationRequest: post_id, name, department, year, manifesto
  - IdentifyRequest / VerifyRequest / FlowRequest: login flow steps
  - AdminLoginRequest: email, password
  - SelectCandidateRequest: post_id, candidate_id

Fields tagged validate:"required" are checked by middleware.DecodeAndValidate.

# Domain Types

  - ElectionSetup: name, academic year, lifecycle Phase and derived flags
  - Post, Voter, Candidate: the election roster
  - CandidateReview: one approve/reject decision
  - Results: turnout by department, winner by post, votes by candidate
  - Session: role-bound session token

# Phases

The lifecycle is strictly linear:

	pre-election → nomination → campaigning → voting → counting → results-published

CanTransition and CheckTransition enforce it. ElectionSetup.WithFlags
derives nomination_period_active, election_active and results_published
from the phase so they cannot disagree.

# Constants

Candidate status:

	CandidatePending  = "pending"
	CandidateApproved = "approved"
	CandidateRejected = "rejected"

Session roles:

	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
*/
package models

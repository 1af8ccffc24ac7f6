package handler

import "quorum/internal/voting"

type createTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type openSessionRequest struct {
	DurationMinutes float64 `json:"duration_minutes"`
}

type castVoteRequest struct {
	CPF    string        `json:"cpf"`
	Choice voting.Choice `json:"choice"`
}

type sessionResponse struct {
	voting.Session
	Open bool `json:"open"`
}

type castVoteResponse struct {
	Message string `json:"message"`
}

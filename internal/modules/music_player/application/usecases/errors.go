package usecases

import "errors"

// Errors returned by the music player use cases. Their messages are shown
// to users as-is.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("I'm not in a voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("join a voice channel first")

	// ErrNotInSameChannel is returned when a user tries to make the bot
	// leave a channel they are not in.
	ErrNotInSameChannel = errors.New("you need to be in my voice channel to do that")

	// ErrNotPlaying is returned when no track is currently playing.
	ErrNotPlaying = errors.New("nothing is playing")

	// ErrQueueEmpty is returned when there is neither a current nor a pending track.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrQueueFull is returned when the guild's queue has reached its configured depth.
	ErrQueueFull = errors.New("the queue is full")

	// ErrEmptyQuery is returned when the play query is blank.
	ErrEmptyQuery = errors.New("please provide a URL or search terms")

	// ErrSoundNotFound is returned when the soundboard has no sound with the given name.
	ErrSoundNotFound = errors.New("no sound with that name")

	// ErrPlayerClosed is returned when a player is used after it was removed.
	ErrPlayerClosed = errors.New("player has been shut down")
)

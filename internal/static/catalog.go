package static

import "github.com/samber/lo"

// Message is one fixed phrase the jukebox speaks.
type Message struct {
	ID   string
	Text string
}

var catalog = []Message{
	{"welcome", "Welcome to the crooked Jukebox! Prepare for some crazy shit!"},
	{"song_choice_prompt", "Please say your song choice..."},
	{"custom_song_prompt", "Please provide details about your song choice."},
	{"song_name_prompt", "What's the name of your song?"},
	{"genre_prompt", "What's the genre of your song?"},
	{"styles_prompt", "Describe the musical styles of your song."},
	{"lyrics_prompt", "Describe the lyrics of your song."},
	{"roast_intro", "Prepare to be roasted!"},
	{"try_again", "Try again, oh master of terrible music choices."},
	{"acceptable_song", "Finally! You picked an acceptable song."},
	{"confirm_prompt", "Do you confirm this song choice?"},
	{"song_confirmed", "Song confirmed! Enjoy your music."},
	{"offer", "I can play songs for you or make a song for your loved ones or yourself for just $1 each."},
	{"pick_song", "Great! Let's pick a song for you."},
	{"create_custom_song", "Awesome! Let's create a custom song for you."},
	{"song_selection_cancelled", "Song selection was cancelled. Let's continue with the jokes."},
	{"song_selected_confirmed", "Your song has been selected and confirmed. Enjoy!"},
	{"custom_song_selection_cancelled", "Song selection was cancelled. Let's continue with the jokes."},
	{"custom_song_selected_confirmed", "Your custom song has been selected and confirmed. Enjoy!"},
	{"giving_up", "Giving up already? Typical."},
	{"silence_not_song", "Silence isn't a song, genius. Try again."},
	{"silence_not_song_custom", "Silence isn't a song, genius. Let's try again."},
	{"song_confirmed_enjoy", "Song confirmed! Enjoy your music."},
	{"pick_different_song", "Let's pick a different song."},
	{"pick_different_song_custom", "Let's choose a different song."},
	{"song_selection_cancelled_custom", "Song selection cancelled."},
	{"confirmation_low_confidence", "I didn't catch that. Please say yes to confirm, no to choose a different song, or cancel to exit."},
	{"confirmation_no_input", "I didn't hear anything. Please say yes to confirm, no to choose a different song, or cancel to exit."},
	{"confirmation_error", "There was an error processing your response. Please try again."},
}

// Catalog returns every built-in message in render order.
func Catalog() []Message {
	return append([]Message(nil), catalog...)
}

// IDs returns the identifiers of every built-in message.
func IDs() []string {
	return lo.Map(catalog, func(m Message, _ int) string { return m.ID })
}

// Lookup returns the built-in text for id.
func Lookup(id string) (string, bool) {
	m, ok := lo.Find(catalog, func(m Message) bool { return m.ID == id })
	return m.Text, ok
}

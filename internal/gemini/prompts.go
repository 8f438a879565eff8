package gemini

// Prompt templates. The %d placeholders carry the current year so the
// model anchors its answers to the running season; the structured
// lookups demand a bare JSON object so extractJSON can parse the reply.

const chatPromptEnglish = `You are an IPL cricket expert assistant who is knowledgeable about all IPL seasons including the current %d season.

User message: %s

Respond in a friendly, conversational manner with accurate and up-to-date information about IPL cricket.
Keep your response concise (under 200 words).
Make sure your information about IPL %d is accurate and up-to-date.`

const chatPromptTelugu = `You are an IPL cricket expert assistant who is knowledgeable about all IPL seasons including the current %d season.

User message: %s

Respond in a friendly, conversational manner with accurate and up-to-date information about IPL cricket.
Keep your response concise (under 200 words).

IMPORTANT INSTRUCTIONS:
1. First, compose your response in Telugu language.
2. Then TRANSLITERATE your Telugu response into English letters (Roman script).
3. DO NOT translate to English - keep the Telugu language but write it using English letters.
4. For example, instead of "నమస్కారం" write "Namaskaram".

Example format:
"Namaskaram! IPL gurinchi meeru adagina prashnaku samadhanam..."`

const teamInfoPrompt = `You are an IPL cricket expert with access to the most current information about the %d IPL season.

Provide detailed and ACCURATE information about the IPL cricket team %s for the %d season.

Include the following information:
- Full team name (with correct spelling and capitalization)
- Home ground
- Current captain
- Current coach
- Number of IPL championships won
- Current squad key players
- Recent performance in IPL %d
- Team owner

Format the response as a structured JSON object with the following fields:
name, full_name, home_ground, captain, coach, championships, key_players, recent_performance, owner

Do not include any explanatory text outside the JSON structure.`

const playerInfoPrompt = `You are an IPL cricket expert with access to the most current information about the %d IPL season.

Provide detailed and ACCURATE information about the IPL cricket player %s for the %d season.

Include the following information:
- Full name (with correct spelling)
- Current IPL team
- Playing role (batsman, bowler, all-rounder, wicket-keeper, etc.)
- Number of IPL matches played (total career)
- Total IPL runs scored (career total)
- Total IPL wickets taken (career total)
- Recent performance in IPL %d
- Country of origin

Format the response as a structured JSON object with the following fields:
name, team, role, matches, runs, wickets, recent_performance, country

Do not include any explanatory text outside the JSON structure.`

const matchInfoPrompt = `Provide information about the most recent or upcoming IPL %d match between %s and %s.
Include the following information:
- Match date
- Venue
- Result (if played) or scheduled time (if upcoming)
- Key highlights or predictions

Format the response as a structured JSON object with the following fields:
team1, team2, date, venue, result, highlights

Do not include any explanatory text outside the JSON structure.`

const seasonStatsPrompt = `You are an IPL cricket expert with access to the most current information about the %d IPL season.

Provide ACCURATE and UP-TO-DATE statistics for the IPL %d season.

Include the following information:
- Total matches played so far
- Team with most wins and the win count
- Team with the highest score and the score value
- Player with most runs and the run count
- Player with most wickets and the wicket count

Format the response as a structured JSON object with the following fields:
total_matches, most_wins_team, most_wins_count, highest_score_team, highest_score,
most_runs_player, most_runs, most_wickets_player, most_wickets

Do not include any explanatory text outside the JSON structure.`

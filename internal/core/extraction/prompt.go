package extraction

// defaultPrompt is the extraction instruction sent with every page
// image. Overridable through the [extraction] section of the config.
const defaultPrompt = `You extract academic events from a course syllabus image or PDF page so they can be turned into calendar entries.

WHAT TO EXTRACT:
- Only include items that belong on a calendar: anything with a specific date, a "Week N" reference, or a clearly described weekly repetition (lectures, labs, weekly quizzes).
- Any assignment, project, report, demo, presentation, lab, seminar, lecture, quiz, exam or graded deliverable with a date qualifies.
- Check paragraphs, bullet lists, and tables. Do NOT skip table entries.
- Include weight/percent in the weight field if present.
- If a weekly schedule row contains a graded deliverable, create a separate event for the deliverable; do NOT use the weekly topic as the event title.
- Do NOT output general policies or statements, even if important.

DATE RULES (very important):
- If a date includes a year, keep that year. If not, leave the date exactly as written.
- Do NOT change the month or day under any circumstances.
- Keep "Week N" phrases verbatim in the date field (e.g. "Week 3 Wednesday"); do not convert them yourself.
- If you truly cannot determine a date, set "date" to null. Never guess.

TIME RULES:
- Only include a time if the page explicitly shows one, in 24-hour "HH:MM" form.
- For a time range use ONLY the start time.
- Never invent or guess times.

RECURRENCE RULES:
- Only include recurrence for clearly repeating events. Use "WEEKLY" only.
- byday must be a subset of ["MO","TU","WE","TH","FR","SA","SU"].
- If recurrence is present but the days are unclear, omit recurrence entirely.

OUTPUT FORMAT (STRICT):
- Output ONLY a valid JSON array (no markdown, no backticks, no commentary).
- Always include all keys; use null for fields that do not apply.

JSON SCHEMA:
[
  {
    "date": "as written on the page or null",
    "title": "Short title",
    "description": "Optional context",
    "event_type": "assignment|project|demo|report|quiz|exam|lab|presentation|lecture|other",
    "time": null,
    "weight": null,
    "recurrence": null,
    "byday": null,
    "until": null
  }
]`

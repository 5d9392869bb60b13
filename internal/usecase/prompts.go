package usecase

import "fmt"

// Prompt builders for the generation service. The pipeline imposes its
// own delimiter conventions on prompts (section markers, comma-separated
// integers) and parses replies defensively; nothing here assumes the
// provider honors the format.

func idealAnswerPrompt(question string) string {
	return fmt.Sprintf("Provide a concise, high-quality answer for the following interview question:\n%s", question)
}

func relevancePrompt(question, answer string) string {
	return fmt.Sprintf(`Determine if the user's answer is relevant to the interview question.

Question: %s
User Answer: %s

Evaluate the relevance on a scale of 0-10:
- 9-10: Highly relevant and directly addresses the question
- 7-8: Mostly relevant with minor tangents
- 5-6: Somewhat relevant but missing key points
- 3-4: Partially relevant but mostly off-topic
- 1-2: Barely relevant or mostly unrelated
- 0: Completely irrelevant or wrong topic

Consider:
- Does the answer address what was asked?
- Is the content related to the question topic?
- Does it show understanding of the question?

Return only the relevance score (0-10) as a number.`, question, answer)
}

func skillsPrompt(question, answer string, hasAudio bool) string {
	audioNote := ""
	if hasAudio {
		audioNote = "Note: Audio recording is available for analysis.\n"
	}
	return fmt.Sprintf(`Analyze the following interview response and provide detailed scores out of 10 for each skill category.

Question: %s
User Answer: %s
%s
Evaluation Criteria:
1. Communication (0-10): clarity, confidence, logical flow, ability to convey ideas.
2. Grammar & Language (0-10): sentence structure, vocabulary, proficiency, professional tone.
3. Professional Attitude (0-10): enthusiasm, demeanor, positivity, willingness to learn.
4. Soft Skills (0-10): problem-solving, adaptability, interpersonal skills, critical thinking.

Scoring Guidelines:
- 9-10: Exceptional performance in this area
- 7-8: Good performance with minor areas for improvement
- 5-6: Average performance, needs development
- 3-4: Below average, significant improvement needed
- 1-2: Poor performance, major development required
- 0: No demonstration of this skill

If the answer is completely irrelevant or shows no understanding of the question, score communication and soft skills very low (1-3).

Return only the four scores separated by commas in this exact format: communication_score,grammar_score,attitude_score,soft_skills_score`, question, answer, audioNote)
}

func feedbackPrompt(question, user, ideal string, score, relevance int) string {
	return fmt.Sprintf(`Provide detailed, constructive feedback for this interview response.

Question: %s
User Answer: %s
Ideal Answer: %s
Score: %d/10
Relevance Score: %d/10

Please provide specific, actionable feedback that includes:
1. What was done well
2. Areas for improvement
3. Specific suggestions for better answers
4. Tips for future interviews

Keep the feedback constructive and encouraging. If the score is low, focus on how to improve rather than just pointing out what's wrong.

Return only the feedback text (no additional formatting).`, question, user, ideal, score, relevance)
}

func interviewDataPrompt(position, description string, experienceYears int) string {
	return fmt.Sprintf(`Generate interview data for a candidate applying for the following job.
Create content that is tailored to the role, the described tech stack, and the experience level. Avoid generic questions.

Position: %s
Description: %s
Experience: %d years

Please provide:
1. Exactly 5 interview questions (no introduction, no explanations, no numbering, each on a new line). Ensure a mix across fundamentals, practical problem-solving, system/architecture (if relevant), and role-specific scenarios.
2. For each question, an ideal answer (concise, strong example) appropriate to the experience level.
3. Top 5-10 relevant skills as a comma-separated list. Include both technical and soft skills if relevant.

Format your response as:
QUESTIONS:
[5 questions, each on a new line]

IDEAL_ANSWERS:
[5 ideal answers, each on a new line corresponding to the questions]

SKILLS:
[comma-separated list of skills]`, position, description, experienceYears)
}

package transcript

// Error pages never include request data or internal error text.
const (
	notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Transcript not found</title>
</head>
<body style="font-family: sans-serif; background: #0b0b10; color: #e5e5e5; text-align: center; padding: 4rem 1rem;">
  <h1>404</h1>
  <p>This transcript does not exist or is no longer available.</p>
</body>
</html>
`

	internalErrorPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Server error</title>
</head>
<body style="font-family: sans-serif; background: #0b0b10; color: #e5e5e5; text-align: center; padding: 4rem 1rem;">
  <h1>500</h1>
  <p>The transcript could not be displayed. Please try again later.</p>
</body>
</html>
`
)

package service

const ConfirmAccountEmail = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body>
    <p>Welcome to Emberveil!</p>
    <p>Confirm your account by following this link: %s</p>
    <p>The link is only valid together with this address: %s</p>
</body>
</html>
`

const ResetPasswordEmail = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body>
    <p>A password reset was requested for your account.</p>
    <p>Reset it here: %s</p>
    <p>If you did not request this, ignore this message.</p>
</body>
</html>
`

package templates

const flashesHTML = `{{define "flashes"}}{{range .Flashes}}
<div class="flash flash-{{.Level}}">{{.Message}}</div>
{{end}}{{end}}`

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body>
    <header class="topnav">
        <a href="/" class="brand">TwoFA Portal</a>
        <nav>
            <a href="/">Home</a>
            {{if .User}}
            <a href="/profile">Profile</a>
            <form method="POST" action="/logout" class="inline">
                <input type="hidden" name="_csrf" value="{{.CSRF}}">
                <button type="submit" class="linklike">Logout</button>
            </form>
            {{else}}
            <a href="/login">Login</a>
            <a href="/register">Register</a>
            {{end}}
        </nav>
    </header>
    {{template "flashes" .}}
    <main>
    {{template "content" .}}
    </main>
</body>
</html>
{{end}}`

const homeContent = `{{define "content"}}
<section class="hero">
    <p class="lead">Welcome to the two-factor authentication portal</p>
</section>
{{end}}`

const loginHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Login</title>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body class="auth">
    {{template "flashes" .}}
    <h1>Welcome Back</h1>
    <h2>Login to have access</h2>
    <form method="POST" action="/login" class="card">
        <input type="hidden" name="_csrf" value="{{.CSRF}}">
        <label for="email">Email</label>
        <input type="email" id="email" name="email" value="{{index .Values "email"}}">
        {{with index .Errors "email"}}<p class="field-error">{{.}}</p>{{end}}
        <label for="password">Password</label>
        <input type="password" id="password" name="password">
        {{with index .Errors "password"}}<p class="field-error">{{.}}</p>{{end}}
        <button type="submit">Login</button>
        <span class="alt">Need an account? <a href="/register">Sign Up Here</a></span>
    </form>
</body>
</html>
{{end}}`

const registerHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Register</title>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body class="auth">
    {{template "flashes" .}}
    <h1>Welcome!</h1>
    <h2>Sign Up To Get Started</h2>
    <form method="POST" action="/register" class="card">
        <input type="hidden" name="_csrf" value="{{.CSRF}}">
        <label for="name">Full Name</label>
        <input type="text" id="name" name="name" value="{{index .Values "name"}}">
        {{with index .Errors "name"}}<p class="field-error">{{.}}</p>{{end}}
        <label for="email">Email</label>
        <input type="email" id="email" name="email" value="{{index .Values "email"}}">
        {{with index .Errors "email"}}<p class="field-error">{{.}}</p>{{end}}
        <label for="password">Password</label>
        <input type="password" id="password" name="password">
        {{with index .Errors "password"}}<p class="field-error">{{.}}</p>{{end}}
        <label for="passwordConfirm">Confirm Password</label>
        <input type="password" id="passwordConfirm" name="passwordConfirm">
        {{with index .Errors "passwordConfirm"}}<p class="field-error">{{.}}</p>{{end}}
        <span class="alt">Already have an account? <a href="/login">Login Here</a></span>
        <button type="submit">Sign Up</button>
    </form>
</body>
</html>
{{end}}`

const validateHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Verify Code</title>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body class="auth">
    {{template "flashes" .}}
    <h1>Welcome Back</h1>
    <h2>Verify the Authentication Code</h2>
    <form method="POST" action="/login/validateOtp" class="card">
        <input type="hidden" name="_csrf" value="{{.CSRF}}">
        <h3>Two-Factor Authentication</h3>
        <p>Open the two-step verification app on your mobile device to get your verification code.</p>
        <input type="text" name="token" placeholder="Authentication Code" autofocus autocomplete="one-time-code">
        {{with index .Errors "token"}}<p class="field-error">{{.}}</p>{{end}}
        <button type="submit">Authenticate</button>
        <span class="alt"><a href="/login">Back to basic login</a></span>
    </form>
</body>
</html>
{{end}}`

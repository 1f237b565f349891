package templates

const profileContent = `{{define "content"}}
<section class="profile">
    <div>
        <h1>Profile Page</h1>
        <p>ID: {{.User.ID}}</p>
        <p>Name: {{.User.Name}}</p>
        <p>Email: {{.User.Email}}</p>
    </div>
    <div>
        <h3>Mobile App Authentication (2FA)</h3>
        <p>Secure your account with TOTP two-factor authentication.</p>
        {{if .User.OTPEnabled}}
        <form method="POST" action="/profile/otp/disable">
            <input type="hidden" name="_csrf" value="{{.CSRF}}">
            <button type="submit" class="warn">Disable 2FA</button>
        </form>
        {{else}}
        <form method="POST" action="/profile/otp/generate">
            <input type="hidden" name="_csrf" value="{{.CSRF}}">
            <button type="submit">Setup 2FA</button>
        </form>
        {{end}}
    </div>
</section>
{{with .Dialog}}
<div class="modal-overlay">
    <div class="modal">
        <h3>Two-Factor Authentication (2FA)</h3>
        <h4>Configuring Google Authenticator or Authy</h4>
        <ol>
            <li>Install Google Authenticator (iOS - Android) or Authy (iOS - Android).</li>
            <li>In the authenticator app, select the "+" icon.</li>
            <li>Select "Scan a barcode (or QR code)" and use the phone's camera to scan this barcode.</li>
        </ol>
        <h4>Scan QR Code</h4>
        <img class="qrcode" src="{{.QRCodeDataURL}}" alt="TOTP provisioning QR code">
        <h4>Or Enter Code Into Your App</h4>
        <p>SecretKey: {{.Base32}} (Base32 encoded)</p>
        <h4>Verify Code</h4>
        <p>For changing the setting, please verify the authentication code:</p>
        <form method="POST" action="/profile/otp/verify">
            <input type="hidden" name="_csrf" value="{{$.CSRF}}">
            <input type="hidden" name="otpauth_url" value="{{.OTPAuthURL}}">
            <input type="hidden" name="base32" value="{{.Base32}}">
            <input type="text" name="token" placeholder="Authentication Code" autofocus autocomplete="one-time-code">
            {{with .TokenError}}<p class="field-error">{{.}}</p>{{end}}
            <div class="actions">
                <a href="/profile" class="button grey">Close</a>
                <button type="submit">Verify &amp; Activate</button>
            </div>
        </form>
    </div>
</div>
{{end}}
{{end}}`
